// Package receipt renders meal records as plain-text receipts for kiosk printers.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
)

const header = "MOE CAFETERIA"

// Details is what a receipt shows beyond the record itself
type Details struct {
	EmployeeCode string // short code, falls back to the business employee id
	CategoryName string
}

// Render formats a record in the receipt's local time
func Render(rec *models.MealRecord, d Details, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	at := rec.RecordedAt.In(loc)

	var b strings.Builder
	fmt.Fprintln(&b, header)
	fmt.Fprintf(&b, "Order: %d\n", rec.OrderNumber)
	fmt.Fprintf(&b, "Date: %s\n", at.Format("01/02/2006"))
	fmt.Fprintf(&b, "Time: %s\n", at.Format("15:04:05"))
	fmt.Fprintf(&b, "Employee: %s\n", d.EmployeeCode)
	fmt.Fprintf(&b, "Meal Type: %s\n", rec.MealTypeID)
	fmt.Fprintf(&b, "Meal Category: %s\n", d.CategoryName)
	for _, item := range rec.Items {
		fmt.Fprintf(&b, "  %d x %s %s ETB\n", item.Quantity, item.MealItemName, item.TotalPrice.StringFixed(2))
	}
	if rec.PriceType == models.PriceSupported {
		fmt.Fprintf(&b, "Support: %s ETB\n", rec.SupportAmount.StringFixed(2))
	}
	fmt.Fprintf(&b, "Actual Price: %s ETB\n", rec.ActualPrice.StringFixed(2))
	fmt.Fprintln(&b, "Thank you for using our service!")
	return b.String()
}

// DetailsFor builds receipt details from the record's employee and category
func DetailsFor(emp *models.Employee, category *models.MealCategory, fallbackName string) Details {
	d := Details{CategoryName: fallbackName}
	if category != nil {
		d.CategoryName = category.Name
	}
	if emp != nil {
		d.EmployeeCode = emp.EmployeeID
		if emp.ShortCode != nil && *emp.ShortCode != "" {
			d.EmployeeCode = *emp.ShortCode
		}
	}
	return d
}
