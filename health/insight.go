// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package health

import (
	"fmt"
	"strings"
)

// Risk flag thresholds.
const highLeverageThreshold = 1.5

// healthInsight renders the factor summary line for a company. Only
// factors that could be computed contribute a fragment.
func healthInsight(raw *rawFactors) string {
	var parts []string

	if raw.growth != nil {
		// the signed value is printed as-is, so a decline reads
		// "declined -10.0% YoY"
		verb := "declined"
		if *raw.growth > 0 {
			verb = "grew"
		}
		parts = append(parts, fmt.Sprintf("Revenue %s %.1f%% YoY", verb, *raw.growth*100))
	}
	if raw.netMargin != nil {
		parts = append(parts, fmt.Sprintf("Net margin %.1f%%", *raw.netMargin*100))
	}
	if raw.fcfMargin != nil {
		parts = append(parts, fmt.Sprintf("FCF margin %.1f%%", *raw.fcfMargin*100))
	}
	if raw.debtEquity != nil {
		parts = append(parts, fmt.Sprintf("D/E %.2f", *raw.debtEquity))
	}

	insight := strings.Join(parts, "; ")
	if flags := riskFlags(raw); len(flags) > 0 {
		insight += " • Risk: " + strings.Join(flags, ", ")
	}

	return insight
}

// riskFlags lists the qualitative warnings a company's factor values
// trigger, in fixed factor order.
func riskFlags(raw *rawFactors) []string {
	var flags []string

	if raw.growth != nil && *raw.growth < 0 {
		flags = append(flags, "Revenue contraction")
	}
	if raw.netMargin != nil && *raw.netMargin < 0 {
		flags = append(flags, "Negative profitability")
	}
	if raw.fcfMargin != nil && *raw.fcfMargin < 0 {
		flags = append(flags, "Cash burn")
	}
	if raw.debtEquity != nil && *raw.debtEquity > highLeverageThreshold {
		flags = append(flags, "High leverage")
	}

	return flags
}

// humanFormat renders a dollar value with a magnitude suffix, e.g.
// 1234567890 -> $1.2B, -2500000 -> -$2.5M. Values under a thousand
// print whole dollars with no suffix.
func humanFormat(value float64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	suffixes := []string{"", "K", "M", "B", "T", "P"}
	magnitude := 0
	for value >= 1000 && magnitude < len(suffixes)-1 {
		value /= 1000
		magnitude++
	}

	if magnitude == 0 {
		return fmt.Sprintf("%s$%.0f", sign, value)
	}

	return fmt.Sprintf("%s$%.1f%s", sign, value, suffixes[magnitude])
}
