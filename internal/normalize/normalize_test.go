package normalize

import "testing"

func TestDate(t *testing.T) {
	nz := New(nil)

	tests := []struct {
		in   string
		want string
	}{
		{"Hoá đơn ngày 5 tháng 3 năm 2024", "05/03/2024"},
		{"ngày 15 tháng 12 năm 2023", "15/12/2023"},
		{"5 tháng 3 năm 2024", "05/03/2024"},
		{"no date here", "no date here"},
		{"  trimmed passthrough  ", "trimmed passthrough"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := nz.Date(tt.in); got != tt.want {
			t.Errorf("Date(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCustomerName(t *testing.T) {
	nz := New(nil)

	tests := []struct {
		in   string
		want string
	}{
		{"Thu Bàn", "Thu Bồn"},
		{"Thu Bàn (chợ sáng)", "Thu Bồn"},
		{"Anh Minh (giao chiều)", "Anh Minh"},
		{"  Chị Hoa  ", "Chị Hoa"},
	}
	for _, tt := range tests {
		if got := nz.CustomerName(tt.in); got != tt.want {
			t.Errorf("CustomerName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProductName(t *testing.T) {
	nz := New(nil)

	tests := []struct {
		in   string
		want string
	}{
		{"Nấm Bào Ngư", "Nấm bào ngư"},
		{"Nấm bào ngư xám", "Nấm bào ngư"},
		{"Nấm Rơm", "Nấm rơm"},
		{"  Nấm đông cô ", "Nấm đông cô"},
		{"Rau muống", "Rau muống"}, // unknown passes through
	}
	for _, tt := range tests {
		if got := nz.ProductName(tt.in); got != tt.want {
			t.Errorf("ProductName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProductNameIdempotent(t *testing.T) {
	nz := New(nil)
	for _, in := range []string{"Nấm Bào Ngư", "Nấm bào ngư xám", "Rau muống", "  x "} {
		once := nz.ProductName(in)
		if twice := nz.ProductName(once); twice != once {
			t.Errorf("ProductName not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in         any
		wantParsed bool
		wantValue  int64
		wantText   string
	}{
		{"1.500.000", true, 1500000, ""},
		{"12,000", true, 12000, ""},
		{" 42 ", true, 42, ""},
		{float64(7), true, 7, ""},
		{"bảy", false, 0, "bảy"},
		{nil, false, 0, ""},
	}
	for _, tt := range tests {
		got := Number(tt.in)
		if got.Parsed != tt.wantParsed {
			t.Errorf("Number(%v).Parsed = %v, want %v", tt.in, got.Parsed, tt.wantParsed)
			continue
		}
		if got.Parsed && got.Value != tt.wantValue {
			t.Errorf("Number(%v).Value = %d, want %d", tt.in, got.Value, tt.wantValue)
		}
		if !got.Parsed && got.Text != tt.wantText {
			t.Errorf("Number(%v).Text = %q, want %q", tt.in, got.Text, tt.wantText)
		}
	}
}

func TestPrice(t *testing.T) {
	nz := New(nil)

	tests := []struct {
		in         any
		wantParsed bool
		wantValue  int64
	}{
		{"5000", true, 5000000},
		{"9999", true, 9999000},
		{"10000", true, 10000},
		{"15000", true, 15000},
		{"1.500.000", true, 1500000},
		{"12.000", true, 12000},
	}
	for _, tt := range tests {
		got := nz.Price(tt.in)
		if got.Parsed != tt.wantParsed || got.Value != tt.wantValue {
			t.Errorf("Price(%v) = {%d %v}, want {%d %v}", tt.in, got.Value, got.Parsed, tt.wantValue, tt.wantParsed)
		}
	}

	// Unparseable prices pass through untouched.
	if got := nz.Price("rẻ"); got.Parsed || got.Text != "rẻ" {
		t.Errorf("Price(rẻ) = %+v, want passthrough", got)
	}
}

func TestPriceThresholdOption(t *testing.T) {
	nz := New(nil, WithPriceThreshold(100))
	if got := nz.Price("5000"); got.Value != 5000 {
		t.Errorf("Price with threshold 100 = %d, want 5000", got.Value)
	}
	if got := nz.Price("99"); got.Value != 99000 {
		t.Errorf("Price(99) with threshold 100 = %d, want 99000", got.Value)
	}
}
