package model

import "testing"

func TestWeighingRecordNet(t *testing.T) {
	record := &WeighingRecord{GrossWeight: 12500, TareWeight: 4500}
	if !record.IsValidWeights() {
		t.Fatal("valid weights rejected")
	}
	record.ComputeNet()
	if record.NetWeight != 8000 {
		t.Errorf("net = %v, want 8000", record.NetWeight)
	}
}

func TestWeighingRecordInvalidWeights(t *testing.T) {
	cases := []struct {
		name        string
		gross, tare float64
	}{
		{"tare over gross", 4000, 5000},
		{"negative tare", 4000, -1},
	}
	for _, tc := range cases {
		record := &WeighingRecord{GrossWeight: tc.gross, TareWeight: tc.tare}
		if record.IsValidWeights() {
			t.Errorf("%s accepted", tc.name)
		}
	}
}

func TestGradingRecordValidate(t *testing.T) {
	good := &GradingRecord{QualityScore: 85, MaturityLevel: MaturityMasak, BrondolanPercentage: 4.5}
	if !good.Validate() {
		t.Error("valid grading rejected")
	}

	cases := []struct {
		name   string
		record GradingRecord
	}{
		{"score over 100", GradingRecord{QualityScore: 101, MaturityLevel: MaturityMasak}},
		{"negative score", GradingRecord{QualityScore: -1, MaturityLevel: MaturityMasak}},
		{"bad maturity", GradingRecord{QualityScore: 80, MaturityLevel: "SETENGAH"}},
		{"percentages over 100", GradingRecord{
			QualityScore: 80, MaturityLevel: MaturityMasak,
			BrondolanPercentage: 70, LooseFruitPercentage: 40,
		}},
	}
	for _, tc := range cases {
		if tc.record.Validate() {
			t.Errorf("%s accepted", tc.name)
		}
	}

	approved := &GradingRecord{IsApproved: true}
	if approved.CanBeUpdated() {
		t.Error("approved grading still editable")
	}
}
