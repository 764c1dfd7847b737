package tenders

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Parser extracts tender details from eTenders HTML pages
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

var closingDateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02",
	"02 January 2006 15:04",
	"02 January 2006",
}

// ParseTenderPage extracts tender fields from a detail page. Missing fields
// are left zero; the portal's markup is not stable enough to treat absence
// as an error.
func (p *Parser) ParseTenderPage(doc *goquery.Document) Tender {
	var tender Tender

	if title := strings.TrimSpace(doc.Find("h1.tender-title").First().Text()); title != "" {
		tender.Title = title
	} else if title := strings.TrimSpace(doc.Find("title").Text()); title != "" {
		tender.Title = strings.Split(title, " | ")[0]
	}

	doc.Find("table.tender-details tr, .tender-detail-row").Each(func(i int, s *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(s.Find("th, .detail-label").First().Text()))
		value := strings.TrimSpace(s.Find("td, .detail-value").First().Text())
		if value == "" {
			return
		}

		switch {
		case strings.Contains(label, "tender number"), strings.Contains(label, "reference"):
			tender.TenderID = value
		case strings.Contains(label, "department"), strings.Contains(label, "organ of state"):
			tender.Buyer = value
		case strings.Contains(label, "province"):
			tender.Province = value
		case strings.Contains(label, "category"):
			tender.Category = value
		case strings.Contains(label, "closing"):
			tender.ClosingDate = parseClosingDate(value)
		case strings.Contains(label, "description"):
			tender.Description = value
		}
	})

	if tender.Description == "" {
		tender.Description = strings.TrimSpace(doc.Find(".tender-description").First().Text())
	}

	return tender
}

func parseClosingDate(value string) time.Time {
	for _, layout := range closingDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
