package domain

import (
	"github.com/shopspring/decimal"
)

// MortgageReport is the computed view of a configured mortgage
type MortgageReport struct {
	Name                     string                           `json:"name" yaml:"name"`
	TotalLoanAmount          decimal.Decimal                  `json:"totalLoanAmount" yaml:"total_loan_amount"`
	PropertyValue            *decimal.Decimal                 `json:"propertyValue,omitempty" yaml:"property_value,omitempty"`
	LoanToValue              *decimal.Decimal                 `json:"loanToValue,omitempty" yaml:"loan_to_value,omitempty"`
	NumPayments              int                              `json:"numPayments" yaml:"num_payments"`
	InitialMonthlyPayment    decimal.Decimal                  `json:"initialMonthlyPayment" yaml:"initial_monthly_payment"`
	HighestMonthlyPayment    decimal.Decimal                  `json:"highestMonthlyPayment" yaml:"highest_monthly_payment"`
	TotalPayment             decimal.Decimal                  `json:"totalPayment" yaml:"total_payment"`
	TotalInterest            decimal.Decimal                  `json:"totalInterest" yaml:"total_interest"`
	LinkedIndexPayment       decimal.Decimal                  `json:"linkedIndexPayment" yaml:"linked_index_payment"`
	TotalLoanCost            decimal.Decimal                  `json:"totalLoanCost" yaml:"total_loan_cost"`
	WeightedAverageRate      decimal.Decimal                  `json:"weightedAverageRate" yaml:"weighted_average_rate"`
	AnnualIRR                decimal.Decimal                  `json:"annualIrr" yaml:"annual_irr"`
	TotalCostOfBorrowing     decimal.Decimal                  `json:"totalCostOfBorrowing" yaml:"total_cost_of_borrowing"`
	Exit                     *ExitResult                      `json:"exit,omitempty" yaml:"exit,omitempty"`
	Tracks                   []TrackSummary                   `json:"tracks" yaml:"tracks"`
	LinkageSegmentation      map[LinkageType]decimal.Decimal  `json:"linkageSegmentation" yaml:"linkage_segmentation"`
	InterestTypeSegmentation map[InterestType]decimal.Decimal `json:"interestTypeSegmentation" yaml:"interest_type_segmentation"`
	EarlyPaymentFees         []FeeQuote                       `json:"earlyPaymentFees,omitempty" yaml:"early_payment_fees,omitempty"`
	AnnualSchedule           []AnnualRow                      `json:"annualSchedule" yaml:"annual_schedule"`
	Affordability            *AffordabilityResult             `json:"affordability,omitempty" yaml:"affordability,omitempty"`
}

// TrackSummary holds per-track figures
type TrackSummary struct {
	Name                  string          `json:"name" yaml:"name"`
	Kind                  TrackKind       `json:"kind" yaml:"kind"`
	InterestType          InterestType    `json:"interestType" yaml:"interest_type"`
	LinkageType           LinkageType     `json:"linkageType" yaml:"linkage_type"`
	Amount                decimal.Decimal `json:"amount" yaml:"amount"`
	InterestRate          decimal.Decimal `json:"interestRate" yaml:"interest_rate"`
	NumPayments           int             `json:"numPayments" yaml:"num_payments"`
	Share                 decimal.Decimal `json:"share" yaml:"share"`
	ResourceAllocation    decimal.Decimal `json:"resourceAllocation" yaml:"resource_allocation"`
	InitialMonthlyPayment decimal.Decimal `json:"initialMonthlyPayment" yaml:"initial_monthly_payment"`
	HighestMonthlyPayment decimal.Decimal `json:"highestMonthlyPayment" yaml:"highest_monthly_payment"`
	TotalInterest         decimal.Decimal `json:"totalInterest" yaml:"total_interest"`
	TotalRepayment        decimal.Decimal `json:"totalRepayment" yaml:"total_repayment"`
	LoanCost              decimal.Decimal `json:"loanCost" yaml:"loan_cost"`
	AnnualIRR             decimal.Decimal `json:"annualIrr" yaml:"annual_irr"`
}

// FeeQuote is the pipeline early-repayment fee at a given month
type FeeQuote struct {
	Month          int             `json:"month" yaml:"month"`
	DiscountFactor decimal.Decimal `json:"discountFactor" yaml:"discount_factor"`
	Fee            decimal.Decimal `json:"fee" yaml:"fee"`
}

// ExitResult is the cost of borrowing when the loan is repaid early
type ExitResult struct {
	Years                int             `json:"years" yaml:"years"`
	InterestPaid         decimal.Decimal `json:"interestPaid" yaml:"interest_paid"`
	EarlyPaymentFee      decimal.Decimal `json:"earlyPaymentFee" yaml:"early_payment_fee"`
	TotalCostOfBorrowing decimal.Decimal `json:"totalCostOfBorrowing" yaml:"total_cost_of_borrowing"`
}

// AnnualRow is one year of the aggregated schedule
type AnnualRow struct {
	Year             int             `json:"year" yaml:"year"`
	Principal        decimal.Decimal `json:"principal" yaml:"principal"`
	Interest         decimal.Decimal `json:"interest" yaml:"interest"`
	Payment          decimal.Decimal `json:"payment" yaml:"payment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance" yaml:"remaining_balance"`
}

// AffordabilityResult compares the loan with what the payment cap can service
type AffordabilityResult struct {
	MaxMonthlyPayment decimal.Decimal `json:"maxMonthlyPayment" yaml:"max_monthly_payment"`
	NumPayments       int             `json:"numPayments" yaml:"num_payments"`
	AnnualRate        decimal.Decimal `json:"annualRate" yaml:"annual_rate"`
	MaximumLoanAmount decimal.Decimal `json:"maximumLoanAmount" yaml:"maximum_loan_amount"`
	WithinLimit       bool            `json:"withinLimit" yaml:"within_limit"`
}

// FeeAt returns the quoted fee for month, if one was computed
func (r *MortgageReport) FeeAt(month int) (FeeQuote, bool) {
	for _, q := range r.EarlyPaymentFees {
		if q.Month == month {
			return q, true
		}
	}
	return FeeQuote{}, false
}

// Track returns the summary for the named track
func (r *MortgageReport) Track(name string) (TrackSummary, bool) {
	for _, t := range r.Tracks {
		if t.Name == name {
			return t, true
		}
	}
	return TrackSummary{}, false
}
