// Package report aggregates meal records into subsidy summaries.
// Everything here is pure: callers load the records and employees.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/subsidy"
	"github.com/shopspring/decimal"
)

// Period names accepted by Window
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// Window returns the [start, now] range for a period. Unknown periods are monthly.
func Window(period string, now time.Time) (time.Time, time.Time) {
	switch strings.ToLower(period) {
	case PeriodDaily:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), now
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), now
	case PeriodYearly:
		return now.AddDate(0, 0, -365), now
	default:
		return now.AddDate(0, 0, -30), now
	}
}

// Summary is the organisation-wide subsidy picture for a window
type Summary struct {
	TotalMeals         int             `json:"totalMeals"`
	SupportedMeals     int             `json:"supportedMeals"`
	NormalMeals        int             `json:"normalMeals"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TotalSubsidy       decimal.Decimal `json:"totalSubsidy"`
	PotentialRevenue   decimal.Decimal `json:"potentialRevenue"`
	SupportedEmployees int             `json:"supportedEmployees"`
	TotalEmployees     int             `json:"totalEmployees"`
	SupportPercentage  float64         `json:"supportPercentage"`
}

// Summarize totals records and counts eligible employees among the active ones
func Summarize(records []models.MealRecord, employees []models.Employee, threshold decimal.Decimal) Summary {
	s := Summary{
		TotalRevenue:     decimal.Zero,
		TotalSubsidy:     decimal.Zero,
		PotentialRevenue: decimal.Zero,
	}

	for _, r := range records {
		s.TotalMeals++
		if r.PriceType == models.PriceSupported {
			s.SupportedMeals++
		}
		s.TotalRevenue = s.TotalRevenue.Add(r.ActualPrice)
		s.TotalSubsidy = s.TotalSubsidy.Add(r.SupportAmount)
		s.PotentialRevenue = s.PotentialRevenue.Add(r.NormalPrice)
	}
	s.NormalMeals = s.TotalMeals - s.SupportedMeals

	for _, e := range employees {
		if !e.Active {
			continue
		}
		s.TotalEmployees++
		if subsidy.IsEligible(e.Salary, threshold) {
			s.SupportedEmployees++
		}
	}

	s.SupportPercentage = percent(s.SupportedMeals, s.TotalMeals)
	return s
}

// DepartmentAnalysis is the subsidy picture for one department
type DepartmentAnalysis struct {
	Department            string          `json:"department"`
	TotalEmployees        int             `json:"totalEmployees"`
	EligibleEmployees     int             `json:"eligibleEmployees"`
	EmployeesUsingSupport int             `json:"employeesUsingSupport"`
	TotalMeals            int             `json:"totalMeals"`
	SupportedMeals        int             `json:"supportedMeals"`
	TotalRevenue          decimal.Decimal `json:"totalRevenue"`
	TotalSubsidy          decimal.Decimal `json:"totalSubsidy"`
	AvgSalary             decimal.Decimal `json:"avgDepartmentSalary"`
	EligibilityPercentage float64         `json:"eligibilityPercentage"`
}

// ByDepartment groups active employees by department and attributes each
// record to its employee's department. Results are sorted by department name.
func ByDepartment(records []models.MealRecord, employees []models.Employee, threshold decimal.Decimal) []DepartmentAnalysis {
	byDept := make(map[string][]models.Employee)
	deptOf := make(map[string]string)
	for _, e := range employees {
		if !e.Active {
			continue
		}
		byDept[e.Department] = append(byDept[e.Department], e)
		deptOf[e.ID] = e.Department
	}

	recordsByDept := make(map[string][]models.MealRecord)
	for _, r := range records {
		dept, ok := deptOf[r.EmployeeRefID]
		if !ok && r.Employee != nil {
			dept, ok = r.Employee.Department, true
		}
		if ok {
			recordsByDept[dept] = append(recordsByDept[dept], r)
		}
	}

	out := make([]DepartmentAnalysis, 0, len(byDept))
	for dept, emps := range byDept {
		out = append(out, analyzeDepartment(dept, emps, recordsByDept[dept], threshold))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Department < out[j].Department
	})
	return out
}

func analyzeDepartment(dept string, employees []models.Employee, records []models.MealRecord, threshold decimal.Decimal) DepartmentAnalysis {
	a := DepartmentAnalysis{
		Department:     dept,
		TotalEmployees: len(employees),
		TotalRevenue:   decimal.Zero,
		TotalSubsidy:   decimal.Zero,
		AvgSalary:      decimal.Zero,
	}

	usingSupport := make(map[string]bool)
	for _, r := range records {
		a.TotalMeals++
		if r.PriceType == models.PriceSupported {
			a.SupportedMeals++
			usingSupport[r.EmployeeRefID] = true
		}
		a.TotalRevenue = a.TotalRevenue.Add(r.ActualPrice)
		a.TotalSubsidy = a.TotalSubsidy.Add(r.SupportAmount)
	}

	salaryTotal := decimal.Zero
	salaried := 0
	for _, e := range employees {
		if subsidy.IsEligible(e.Salary, threshold) {
			a.EligibleEmployees++
		}
		if usingSupport[e.ID] {
			a.EmployeesUsingSupport++
		}
		if e.Salary != nil {
			salaryTotal = salaryTotal.Add(*e.Salary)
			salaried++
		}
	}

	if salaried > 0 {
		a.AvgSalary = salaryTotal.Div(decimal.NewFromInt(int64(salaried))).Round(2)
	}
	a.EligibilityPercentage = percent(a.EligibleEmployees, a.TotalEmployees)
	return a
}

// CategoryAnalysis totals records for one meal category
type CategoryAnalysis struct {
	MealCategoryID string              `json:"mealCategoryId"`
	MealName       string              `json:"mealName"`
	MealTypeID     string              `json:"mealTypeId"`
	Category       models.CategoryType `json:"category"`
	TotalMeals     int                 `json:"totalMeals"`
	SupportedMeals int                 `json:"supportedMeals"`
	TotalRevenue   decimal.Decimal     `json:"totalRevenue"`
	TotalSubsidy   decimal.Decimal     `json:"totalSubsidy"`
}

// ByCategory groups records by meal category, sorted by meal type then name
func ByCategory(records []models.MealRecord) []CategoryAnalysis {
	index := make(map[string]int)
	var out []CategoryAnalysis

	for _, r := range records {
		i, ok := index[r.MealCategoryID]
		if !ok {
			i = len(out)
			index[r.MealCategoryID] = i
			out = append(out, CategoryAnalysis{
				MealCategoryID: r.MealCategoryID,
				MealName:       r.MealName,
				MealTypeID:     r.MealTypeID,
				Category:       r.Category,
				TotalRevenue:   decimal.Zero,
				TotalSubsidy:   decimal.Zero,
			})
		}
		c := &out[i]
		c.TotalMeals++
		if r.PriceType == models.PriceSupported {
			c.SupportedMeals++
		}
		c.TotalRevenue = c.TotalRevenue.Add(r.ActualPrice)
		c.TotalSubsidy = c.TotalSubsidy.Add(r.SupportAmount)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MealTypeID != out[j].MealTypeID {
			return out[i].MealTypeID < out[j].MealTypeID
		}
		return out[i].MealName < out[j].MealName
	})
	return out
}

// UsageStats summarises one employee's redemption history
type UsageStats struct {
	TotalMeals     int                        `json:"totalMeals"`
	TotalAmount    decimal.Decimal            `json:"totalAmount"`
	TotalSubsidy   decimal.Decimal            `json:"totalSubsidy"`
	TotalSavings   decimal.Decimal            `json:"totalSavings"`
	MealCounts     map[string]int             `json:"mealCounts"`
	MealAmounts    map[string]decimal.Decimal `json:"mealAmounts"`
	SupportedMeals int                        `json:"supportedMeals"`
	NormalMeals    int                        `json:"normalMeals"`
}

// EmployeeUsage totals an employee's records, keyed by meal type
func EmployeeUsage(records []models.MealRecord) UsageStats {
	u := UsageStats{
		TotalAmount:  decimal.Zero,
		TotalSubsidy: decimal.Zero,
		MealCounts:   make(map[string]int),
		MealAmounts:  make(map[string]decimal.Decimal),
	}

	for _, r := range records {
		u.TotalMeals++
		if r.PriceType == models.PriceSupported {
			u.SupportedMeals++
		}
		u.TotalAmount = u.TotalAmount.Add(r.ActualPrice)
		u.TotalSubsidy = u.TotalSubsidy.Add(r.SupportAmount)
		u.MealCounts[r.MealTypeID]++
		u.MealAmounts[r.MealTypeID] = u.MealAmounts[r.MealTypeID].Add(r.ActualPrice)
	}

	u.NormalMeals = u.TotalMeals - u.SupportedMeals
	u.TotalSavings = u.TotalSubsidy
	return u
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
