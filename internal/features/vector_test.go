package features

import "testing"

func TestVector_Complete(t *testing.T) {
	if (Vector{1, 2, 3}).Complete() {
		t.Error("short vector reported complete")
	}
	if !(Vector{0, 0, 0, 0, 0, 0, 0, 0}).Complete() {
		t.Error("full vector reported incomplete")
	}
	if !(Vector{0, 0, 0, 0, 0, 0, 0, 0, 9, 9}).Complete() {
		t.Error("vector with trailing extras reported incomplete")
	}
}

func TestVector_At(t *testing.T) {
	v := Vector{1.5, 2.5, 3.5}

	if got := v.At(ProfitUSD); got != 2.5 {
		t.Errorf("At(ProfitUSD): expected 2.5, got %v", got)
	}
	if got := v.At(Freshness); got != 0 {
		t.Errorf("At past end: expected 0, got %v", got)
	}
	if got := v.At(-1); got != 0 {
		t.Errorf("At(-1): expected 0, got %v", got)
	}
}

func TestFeaturePositions(t *testing.T) {
	// Positions are a wire contract with the scanner and trainer.
	positions := map[string]int{
		"profit":       Profit,
		"profitUSD":    ProfitUSD,
		"gasEstimate":  GasEstimate,
		"inputAmount":  InputAmount,
		"outputAmount": OutputAmount,
		"pathLength":   PathLength,
		"dexCount":     DexCount,
		"freshness":    Freshness,
	}
	expected := map[string]int{
		"profit": 0, "profitUSD": 1, "gasEstimate": 2, "inputAmount": 3,
		"outputAmount": 4, "pathLength": 5, "dexCount": 6, "freshness": 7,
	}
	for name, want := range expected {
		if positions[name] != want {
			t.Errorf("%s: expected index %d, got %d", name, want, positions[name])
		}
	}
	if Count != 8 {
		t.Errorf("expected 8 features, got %d", Count)
	}
}
