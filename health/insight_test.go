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

import "testing"

func TestHealthInsight(t *testing.T) {
	raw := &rawFactors{
		ticker:     "AAA",
		growth:     f(0.152),
		netMargin:  f(0.237),
		fcfMargin:  f(0.081),
		debtEquity: f(0.82),
	}

	want := "Revenue grew 15.2% YoY; Net margin 23.7%; FCF margin 8.1%; D/E 0.82"
	if got := healthInsight(raw); got != want {
		t.Errorf("insight = %q, want %q", got, want)
	}
}

func TestHealthInsightDeclineAndRisk(t *testing.T) {
	raw := &rawFactors{
		ticker:     "BBB",
		growth:     f(-0.10),
		netMargin:  f(-0.055),
		fcfMargin:  f(0.02),
		debtEquity: f(3.0),
	}

	want := "Revenue declined -10.0% YoY; Net margin -5.5%; FCF margin 2.0%; D/E 3.00" +
		" • Risk: Revenue contraction, Negative profitability, High leverage"
	if got := healthInsight(raw); got != want {
		t.Errorf("insight = %q, want %q", got, want)
	}
}

func TestHealthInsightZeroGrowth(t *testing.T) {
	// flat revenue is not growth
	raw := &rawFactors{ticker: "DDD", growth: f(0)}

	want := "Revenue declined 0.0% YoY"
	if got := healthInsight(raw); got != want {
		t.Errorf("insight = %q, want %q", got, want)
	}
}

func TestHealthInsightPartialFactors(t *testing.T) {
	raw := &rawFactors{ticker: "CCC", netMargin: f(0.10)}

	want := "Net margin 10.0%"
	if got := healthInsight(raw); got != want {
		t.Errorf("insight = %q, want %q", got, want)
	}
}

func TestRiskFlagThresholds(t *testing.T) {
	// exactly at threshold does not flag
	raw := &rawFactors{growth: f(0), netMargin: f(0), fcfMargin: f(0), debtEquity: f(1.5)}
	if flags := riskFlags(raw); len(flags) != 0 {
		t.Errorf("flags = %v, want none at thresholds", flags)
	}

	raw = &rawFactors{debtEquity: f(1.51)}
	flags := riskFlags(raw)
	if len(flags) != 1 || flags[0] != "High leverage" {
		t.Errorf("flags = %v, want [High leverage]", flags)
	}
}

func TestHumanFormat(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{0, "$0"},
		{950, "$950"},
		{999.4, "$999"},
		{1234, "$1.2K"},
		{2500000, "$2.5M"},
		{1234567890, "$1.2B"},
		{4.2e12, "$4.2T"},
		{1e15, "$1.0P"},
		{-2500000, "-$2.5M"},
		{-950, "-$950"},
	}

	for _, c := range cases {
		if got := humanFormat(c.value); got != c.want {
			t.Errorf("humanFormat(%g) = %q, want %q", c.value, got, c.want)
		}
	}
}
