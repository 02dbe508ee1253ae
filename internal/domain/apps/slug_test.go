package apps

import (
	"errors"
	"fmt"
	"testing"
)

func TestMakeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "My Coffee Club", want: "my-coffee-club"},
		{in: "  Spaced  Out  ", want: "spaced-out"},
		{in: "Émoji & Symbols!!", want: "moji-symbols"},
		{in: "already-a-slug", want: "already-a-slug"},
		{in: "---", want: "app"},
		{in: "", want: "app"},
	}

	for _, tt := range tests {
		if got := MakeSlug(tt.in); got != tt.want {
			t.Fatalf("MakeSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func takenSet(slugs ...string) func(string) (bool, error) {
	set := map[string]bool{}
	for _, s := range slugs {
		set[s] = true
	}
	return func(s string) (bool, error) {
		return set[s], nil
	}
}

func TestAllocateNoConflict(t *testing.T) {
	got, err := allocate("my-shop", takenSet())
	if err != nil {
		t.Fatal(err)
	}
	if got != "my-shop" {
		t.Fatalf("allocate = %q, want %q", got, "my-shop")
	}
}

func TestAllocateSuffixes(t *testing.T) {
	// base, base-1 … base-k taken -> base-(k+1)
	for k := 0; k < 5; k++ {
		taken := []string{"my-shop"}
		for i := 1; i <= k; i++ {
			taken = append(taken, fmt.Sprintf("my-shop-%d", i))
		}

		got, err := allocate("my-shop", takenSet(taken...))
		if err != nil {
			t.Fatal(err)
		}
		want := fmt.Sprintf("my-shop-%d", k+1)
		if got != want {
			t.Fatalf("k=%d: allocate = %q, want %q", k, got, want)
		}
	}
}

func TestAllocateExhausted(t *testing.T) {
	_, err := allocate("my-shop", func(string) (bool, error) { return true, nil })
	if !errors.Is(err, ErrSlugExhausted) {
		t.Fatalf("expected ErrSlugExhausted, got %v", err)
	}
}

func TestAllocatePropagatesLookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := allocate("my-shop", func(string) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
