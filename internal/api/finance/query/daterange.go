package query

import "time"

// DateRange bounds CreatedAt. From is always inclusive. To is exclusive for
// year/month windows and inclusive once an explicit endDate overrides it.
type DateRange struct {
	From        *time.Time
	To          *time.Time
	ToInclusive bool
}

// NoRange places no temporal restriction.
var NoRange = DateRange{}

func (r DateRange) IsEmpty() bool {
	return r.From == nil && r.To == nil
}

func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil {
		if r.ToInclusive {
			return !t.After(*r.To)
		}
		return t.Before(*r.To)
	}
	return true
}

// YearRange is [Jan 1 year, Jan 1 year+1) in UTC.
func YearRange(year int) DateRange {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{From: &from, To: &to}
}

// InclusiveRange is [from, to].
func InclusiveRange(from, to time.Time) DateRange {
	return DateRange{From: &from, To: &to, ToInclusive: true}
}

// ResolveDateRange folds the year, month and startDate/endDate hints into one
// interval. Later hints override earlier ones: year, then month, then the
// explicit dates. now supplies the default year when only month is given.
//
// Month is not range-checked. Out of range values go through time.Date
// normalisation and give a meaningless window, never a panic.
func ResolveDateRange(c FilterCriteria, now time.Time) DateRange {
	r := NoRange

	if c.Year != nil {
		r = YearRange(*c.Year)
	}

	if c.Month != nil {
		year := now.UTC().Year()
		if c.Year != nil {
			year = *c.Year
		}
		month := *c.Month

		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		var to time.Time
		if month+1 > 12 {
			to = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		} else {
			to = time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
		}
		r = DateRange{From: &from, To: &to}
	}

	if c.StartDate != nil {
		from := *c.StartDate
		r.From = &from
	}
	if c.EndDate != nil {
		to := *c.EndDate
		r.To = &to
		r.ToInclusive = true
	}

	return r
}
