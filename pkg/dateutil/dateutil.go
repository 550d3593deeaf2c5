package dateutil

import (
	"time"
)

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// YearOfAssessmentStart returns 1 March of the year before the assessment year.
// The 2025 year of assessment starts on 1 March 2024.
func YearOfAssessmentStart(year int) time.Time {
	return time.Date(year-1, time.March, 1, 0, 0, 0, 0, time.UTC)
}

// YearOfAssessmentEnd returns the last day of February in the assessment year
func YearOfAssessmentEnd(year int) time.Time {
	// day 0 of March normalises to the last day of February
	return time.Date(year, time.March, 0, 0, 0, 0, 0, time.UTC)
}

// AgeAtYearEnd returns the age on the last day of the year of assessment,
// which is the date SARS uses to decide the rebate and threshold tier.
func AgeAtYearEnd(birthDate time.Time, year int) int {
	return Age(birthDate, YearOfAssessmentEnd(year))
}

// MonthsInYearOfAssessment counts the whole or part months between from and to
// that fall inside the given assessment year. A zero to means cover continues past year end.
func MonthsInYearOfAssessment(from, to time.Time, year int) int {
	start := YearOfAssessmentStart(year)
	end := YearOfAssessmentEnd(year)
	if from.Before(start) {
		from = start
	}
	if to.IsZero() || to.After(end) {
		to = end
	}
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
	if months > 12 {
		return 12
	}
	return months
}
