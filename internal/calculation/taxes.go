package calculation

import (
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX TABLE ASSUMPTIONS:
//
// 1. Brackets: SARS individual rates for the 2025 year of assessment
//    (1 March 2024 to 28 February 2025). The 2026 budget left them unchanged.
//
// 2. Rebates are cumulative: primary R17 235, secondary R9 444, tertiary R3 145.
//
// 3. Thresholds: R95 750 under 65, R148 217 for 65 to 74, R165 689 for 75 and older.
//
// 4. Medical scheme fees tax credit: R364 a month for the main member and first
//    dependent, R246 for each additional dependent.
//
// 5. Minimum wage: R27.58 an hour for a 40 hour week, only used for validation warnings.
//
// Other years are loaded from the tax table file by the config package.

func zar(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func upTo(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// NewTaxYearTable2025 returns the built-in table for the 2025 year of assessment
func NewTaxYearTable2025() *domain.TaxYearTable {
	return &domain.TaxYearTable{
		Year:  2025,
		Label: "2025 (1 March 2024 - 28 February 2025)",
		Brackets: []domain.TaxBracket{
			{Min: zar(0), Max: upTo(237100), Rate: decimal.RequireFromString("0.18"), BaseAmount: zar(0)},
			{Min: zar(237101), Max: upTo(370500), Rate: decimal.RequireFromString("0.26"), BaseAmount: zar(42678)},
			{Min: zar(370501), Max: upTo(512800), Rate: decimal.RequireFromString("0.31"), BaseAmount: zar(77362)},
			{Min: zar(512801), Max: upTo(673000), Rate: decimal.RequireFromString("0.36"), BaseAmount: zar(121475)},
			{Min: zar(673001), Max: upTo(857900), Rate: decimal.RequireFromString("0.39"), BaseAmount: zar(179147)},
			{Min: zar(857901), Max: upTo(1817000), Rate: decimal.RequireFromString("0.41"), BaseAmount: zar(251258)},
			{Min: zar(1817001), Rate: decimal.RequireFromString("0.45"), BaseAmount: zar(644489)},
		},
		Rebates: domain.Rebates{
			Primary:   zar(17235),
			Secondary: zar(9444),
			Tertiary:  zar(3145),
		},
		Thresholds: domain.Thresholds{
			Under65:   zar(95750),
			Age65To74: zar(148217),
			Age75Plus: zar(165689),
		},
		MedicalCredits: domain.MedicalCredits{
			MainMember:          zar(364),
			FirstDependent:      zar(364),
			AdditionalDependent: zar(246),
		},
		RetirementCap: domain.RetirementCap{
			Rate:     decimal.RequireFromString("0.275"),
			Absolute: zar(350000),
		},
		MedicalExpenseFloorRate: decimal.RequireFromString("0.075"),
		DonationCapRate:         decimal.RequireFromString("0.10"),
		// 27.58 an hour × 40 hours × 52 weeks
		MinimumWage: decimal.RequireFromString("57366.40"),
	}
}
