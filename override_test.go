package leadergeo

import (
	"net/netip"
	"strings"
	"testing"
)

func TestParseOverrides(t *testing.T) {
	k1 := testKey(1)
	k2 := testKey(2)
	k3 := testKey(3)

	input := strings.Join([]string{
		"# pinned validators",
		"",
		k1.String() + ",EU",
		k2.String() + ",@na",
		k3.String() + ",95.217.151.43",
		"   ",
	}, "\n")

	rows, err := ParseOverrides(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	if rows[0].Key != k1 || !rows[0].Source.resolved || rows[0].Source.bucket != BucketEu {
		t.Errorf("row 0 = %+v, want %s resolved to EU", rows[0], k1)
	}
	if rows[1].Key != k2 || rows[1].Source.bucket != BucketNa {
		t.Errorf("row 1 = %+v, want %s resolved to NA", rows[1], k2)
	}
	wantAddr := netip.MustParseAddr("95.217.151.43")
	if rows[2].Key != k3 || rows[2].Source.resolved || rows[2].Source.addr != wantAddr {
		t.Errorf("row 2 = %+v, want %s with address %s", rows[2], k3, wantAddr)
	}
}

func TestParseOverridesSkipsMalformedRows(t *testing.T) {
	good := testKey(9)

	input := strings.Join([]string{
		"no-comma-here",
		"tooshort,EU",
		good.String() + ",not-a-source",
		good.String() + ",apac",
	}, "\n")

	rows, err := ParseOverrides(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (bad rows skipped, not fatal)", len(rows))
	}
	if rows[0].Key != good || rows[0].Source.bucket != BucketApac {
		t.Errorf("surviving row = %+v", rows[0])
	}
}

func TestParseOverridesCaseInsensitiveLabels(t *testing.T) {
	k := testKey(4)
	for _, label := range []string{"unknown", "Unknown", "UNKNOWN", "@unknown"} {
		rows, err := ParseOverrides(strings.NewReader(k.String() + "," + label))
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 || rows[0].Source.bucket != BucketUnknown {
			t.Errorf("label %q: rows = %+v", label, rows)
		}
	}
}

func TestParseGeoSourceIPv6(t *testing.T) {
	src, err := parseGeoSource("2001:db8::1")
	if err != nil {
		t.Fatal(err)
	}
	if src.resolved || src.addr != netip.MustParseAddr("2001:db8::1") {
		t.Errorf("src = %+v", src)
	}
}

func TestClosestLabel(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"APAK", "APAC"},
		{"apacc", "APAC"},
		{"UNKNOW", "UNKNOWN"},
		{"completely-different", ""},
	}
	for _, tt := range tests {
		if got := closestLabel(tt.text); got != tt.want {
			t.Errorf("closestLabel(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
