package method

import (
	"encoding/json"
	"testing"
)

func TestBlockNumberOrTagMarshalsNumberAsHex(t *testing.T) {
	raw, err := json.Marshal(NumberOf(255))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `"0xff"` {
		t.Errorf("got %s, want \"0xff\"", raw)
	}
}

func TestBlockNumberOrTagMarshalsTagAsBareName(t *testing.T) {
	raw, err := json.Marshal(TagOf(TagLatest))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `"latest"` {
		t.Errorf("got %s, want \"latest\"", raw)
	}
}

func TestBlockNumberOrTagIsNumber(t *testing.T) {
	if !NumberOf(1).IsNumber() {
		t.Error("NumberOf(1).IsNumber() should be true")
	}
	if TagOf(TagPending).IsNumber() {
		t.Error("TagOf(...).IsNumber() should be false")
	}
}
