package task

import "testing"

func TestReferenceID(t *testing.T) {
	h := Handle{ID: "1a2b3c4d-0000-1111-2222-333344445555"}
	if got, want := ReferenceID(h), "1a2b3c4d000011112222333344445555"; got != want {
		t.Errorf("ReferenceID = %q, want %q", got, want)
	}
	if got, want := Link("www.notion.so", h), "https://www.notion.so/1a2b3c4d000011112222333344445555"; got != want {
		t.Errorf("Link = %q, want %q", got, want)
	}
}

func TestBlockKindString(t *testing.T) {
	for kind, want := range map[BlockKind]string{Paragraph: "paragraph", Heading: "heading", Bullet: "bullet", Divider: "divider", BlockKind(42): "unknown"} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
