package pagination

import "testing"

func TestNormalizeClampsInputs(t *testing.T) {
	p := Params{Page: -3, Limit: 0}.Normalize()
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("expected defaults, got %+v", p)
	}

	p = Params{Page: 2, Limit: 1000}.Normalize()
	if p.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := (Params{Page: 3, Limit: 25}).Offset(); got != 50 {
		t.Fatalf("expected offset 50, got %d", got)
	}
}

func TestMetaComputesTotalPages(t *testing.T) {
	meta := Params{Page: 2, Limit: 10}.Meta(35)
	if meta.TotalPages != 4 {
		t.Fatalf("expected 4 pages for 35 rows at limit 10, got %d", meta.TotalPages)
	}
	if meta.Page != 2 || meta.Limit != 10 || meta.Total != 35 {
		t.Fatalf("unexpected meta %+v", meta)
	}

	meta = Params{Limit: 10}.Meta(30)
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages for exact multiple, got %d", meta.TotalPages)
	}
}
