package env

import "testing"

func TestGetTrimsAndFallsBack(t *testing.T) {
	t.Setenv("GIFTCONNECT_TEST_VALUE", "  hello ")
	if got := Get("GIFTCONNECT_TEST_VALUE", "x"); got != "hello" {
		t.Fatalf("expected trimmed value, got %q", got)
	}

	t.Setenv("GIFTCONNECT_TEST_VALUE", "   ")
	if got := Get("GIFTCONNECT_TEST_VALUE", "x"); got != "x" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
}

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("GIFTCONNECT_TEST_A", "")
	t.Setenv("GIFTCONNECT_TEST_B", "b")
	t.Setenv("GIFTCONNECT_TEST_C", "c")

	if got := First("z", "GIFTCONNECT_TEST_A", "GIFTCONNECT_TEST_B", "GIFTCONNECT_TEST_C"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if got := First("z", "GIFTCONNECT_TEST_MISSING"); got != "z" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
