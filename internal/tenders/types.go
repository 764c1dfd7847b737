package tenders

import "time"

// Tender is a published procurement opportunity from the national eTenders
// portal, flattened from its OCDS release.
type Tender struct {
	OCID        string    `json:"ocid"`
	TenderID    string    `json:"tender_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Buyer       string    `json:"buyer"`
	Category    string    `json:"category"`
	Province    string    `json:"province"`
	ValueAmount float64   `json:"value_amount"`
	Currency    string    `json:"currency"`
	ClosingDate time.Time `json:"closing_date"`
}

// Query narrows a tender search. Keywords match against title and
// description, case-insensitively; an empty query returns everything in the
// requested window.
type Query struct {
	Keywords []string
	DateFrom time.Time
	DateTo   time.Time
	Limit    int
}

// ocdsResponse mirrors the fields we consume from the OCDS release API
type ocdsResponse struct {
	Releases []ocdsRelease `json:"releases"`
}

type ocdsRelease struct {
	OCID   string `json:"ocid"`
	Tender struct {
		ID                      string `json:"id"`
		Title                   string `json:"title"`
		Description             string `json:"description"`
		MainProcurementCategory string `json:"mainProcurementCategory"`
		Value                   struct {
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
		} `json:"value"`
		TenderPeriod struct {
			EndDate time.Time `json:"endDate"`
		} `json:"tenderPeriod"`
		ProcuringEntity struct {
			Name string `json:"name"`
		} `json:"procuringEntity"`
	} `json:"tender"`
	Buyer struct {
		Name string `json:"name"`
	} `json:"buyer"`
}
