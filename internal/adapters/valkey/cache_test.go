package valkey

import "testing"

func TestCache_KeyPrefix(t *testing.T) {
	c := &Cache{prefix: "daytour"}
	if got := c.key("route:seoul:transit:abc"); got != "daytour:route:seoul:transit:abc" {
		t.Errorf("unexpected key %q", got)
	}

	bare := &Cache{}
	if got := bare.key("k"); got != "k" {
		t.Errorf("expected unprefixed key, got %q", got)
	}
}
