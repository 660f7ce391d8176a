package models

// Ryohi represents one travel-expense entry (旅費明細) on the settlement form
type Ryohi struct {
	Date    *string  `json:"date,omitempty"`    // 日付 YYYY-MM-DD
	Kukan   *string  `json:"kukan,omitempty"`   // 区間
	Detail  []string `json:"detail"`            // 摘要
	Price   *int64   `json:"price,omitempty"`   // 金額
	Vol     *float64 `json:"vol,omitempty"`     // 距離 (km)
	Remarks string   `json:"remarks,omitempty"` // 備考
}

// Item represents one settlement form (精算書), printed as one or more pages
type Item struct {
	Car         string   `json:"car"`                   // 車両番号
	Name        string   `json:"name"`                  // 氏名
	Purpose     string   `json:"purpose,omitempty"`     // 出張目的
	StartDate   string   `json:"startDate,omitempty"`   // 出発日 YYYY-MM-DD
	EndDate     string   `json:"endDate,omitempty"`     // 帰着日 YYYY-MM-DD
	Price       int64    `json:"price"`                 // 精算金額 (円)
	TaxRate     *float64 `json:"taxRate,omitempty"`     // 消費税率 (0.1 = 10%)
	Description string   `json:"description,omitempty"` // 備考
	Ryohi       []Ryohi  `json:"ryohi"`                 // 旅費明細
	Office      string   `json:"office,omitempty"`      // 所属
	PayDay      string   `json:"payDay,omitempty"`      // 支払日 YYYY/MM/DD
}

// Period returns the trip period as printed in the basic-info block
func (i *Item) Period() string {
	switch {
	case i.StartDate == "" && i.EndDate == "":
		return ""
	case i.EndDate == "" || i.EndDate == i.StartDate:
		return ShortDate(i.StartDate)
	case i.StartDate == "":
		return ShortDate(i.EndDate)
	default:
		return ShortDate(i.StartDate) + "～" + ShortDate(i.EndDate)
	}
}

// EntryTotal sums the amounts of all entries that carry one
func (i *Item) EntryTotal() int64 {
	var total int64
	for _, r := range i.Ryohi {
		if r.Price != nil {
			total += *r.Price
		}
	}
	return total
}

// PrintRequest is one generation call: the items to render and what to do with the result.
// Setters return a modified copy, so a request value is never shared mutably.
type PrintRequest struct {
	Items       []Item `json:"items"`
	Print       bool   `json:"print"`
	PrinterName string `json:"printerName,omitempty"` // empty = OS default printer
	OutputPath  string `json:"outputPath,omitempty"`  // empty = generated path
}

// NewPrintRequest creates a request with defaults: no printing, default printer, generated path
func NewPrintRequest(items []Item) PrintRequest {
	return PrintRequest{Items: items}
}

// WithPrint sets the print flag
func (r PrintRequest) WithPrint(print bool) PrintRequest {
	r.Print = print
	return r
}

// WithPrinterName sets the target printer
func (r PrintRequest) WithPrinterName(name string) PrintRequest {
	r.PrinterName = name
	return r
}

// WithOutputPath sets where the PDF is written
func (r PrintRequest) WithOutputPath(path string) PrintRequest {
	r.OutputPath = path
	return r
}

// StringPtr, Int64Ptr and Float64Ptr help build optional fields in literals
func StringPtr(s string) *string    { return &s }
func Int64Ptr(n int64) *int64       { return &n }
func Float64Ptr(f float64) *float64 { return &f }
