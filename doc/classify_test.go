package doc

import "testing"

func TestClassify_CollectsAncestorKinds(t *testing.T) {
	d := mustDoc(t, "T", `<blockquote><b><i>deep</i></b> flat</blockquote>`)
	c := Classify(findText(t, d, "deep"))

	for _, k := range []Kind{KindText, KindItalic, KindBold, KindBlockquote, KindArticle} {
		if !c.Kinds.Has(k) {
			t.Fatalf("kinds %v: missing %v", c.Kinds, k)
		}
	}
	if c.Kinds.Has(KindLink) || c.HasLink {
		t.Fatalf("unexpected link in %v", c.Kinds)
	}
	if c.Kinds.Has(KindRoot) {
		t.Fatalf("root must not be collected: %v", c.Kinds)
	}
}

func TestClassify_VisitsEqualDepth(t *testing.T) {
	d := mustDoc(t, "T", `<p><b><i><a href="http://x">x</a></i></b></p><p>y</p>`)
	for _, s := range []string{"x", "y", "T"} {
		p := findText(t, d, s)
		c := Classify(p)
		if got, want := c.Visits, p.Node.Depth(); got != want {
			t.Fatalf("visits for %q: got %d, want %d", s, got, want)
		}
	}
}

func TestClassify_ReportsLinkHref(t *testing.T) {
	d := mustDoc(t, "T", `<p>go <a href="https://example.com/a"><b>there</b></a></p>`)
	c := Classify(findText(t, d, "there"))
	if !c.HasLink || !c.Kinds.Has(KindLink) {
		t.Fatalf("expected link, got %+v", c)
	}
	if got, want := c.Href, "https://example.com/a"; got != want {
		t.Fatalf("href: got %q, want %q", got, want)
	}
}

func TestClassify_IsASnapshot(t *testing.T) {
	d := mustDoc(t, "T", `<p>plain words</p>`)
	selectText(t, d, "words")
	before := d.Current().Class

	if err := d.Apply(ToggleInline{Kind: KindBold}); err != nil {
		t.Fatal(err)
	}
	if before.Kinds.Has(KindBold) {
		t.Fatalf("snapshot changed after mutation: %v", before.Kinds)
	}
	if !d.Current().Class.Kinds.Has(KindBold) {
		t.Fatalf("fresh snapshot should see bold: %v", d.Current().Class.Kinds)
	}
}

func TestClassify_HeaderIsNotArticle(t *testing.T) {
	d := mustDoc(t, "Title", `<p>body</p>`)
	c := Classify(findText(t, d, "Title"))
	if c.Kinds.Has(KindArticle) || !c.Kinds.Has(KindHeader) {
		t.Fatalf("header kinds: %v", c.Kinds)
	}
}
