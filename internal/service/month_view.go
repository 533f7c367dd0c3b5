package service

import (
	"github.com/ankushthakur2007/sqp/internal/classify"
	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/layout"
)

// ShapeCross names the calendar-grid safety layout in a MonthView.
const ShapeCross = "cross"

// DayView is one day of a MonthView.
type DayView struct {
	Day     int                `json:"day"`
	Date    string             `json:"date"`
	Reading *domain.Reading    `json:"reading,omitempty"`
	Status  classify.DayStatus `json:"status"`
}

// MarkerView is a placed, colored day on one shape.
type MarkerView struct {
	Day    int           `json:"day"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Status domain.Status `json:"status"`
}

// MonthView is everything needed to draw a month: per-day statuses and
// marker positions for each shape.
type MonthView struct {
	Month       string                  `json:"month"`
	Title       string                  `json:"title"`
	DaysInMonth int                     `json:"daysInMonth"`
	Thresholds  domain.Thresholds       `json:"thresholds"`
	Days        []DayView               `json:"days"`
	Shapes      map[string][]MarkerView `json:"shapes"`
	Fillers     []layout.Cell           `json:"fillers"`
}

// BuildMonthView classifies every day of m and places it on each shape in
// reg plus the safety cross. Days without a reading are included with
// no-data statuses.
func BuildMonthView(m domain.Month, days map[int]domain.Reading, th domain.Thresholds, reg layout.Registry) MonthView {
	n := m.DaysIn()
	v := MonthView{
		Month:       m.String(),
		Title:       m.Title(),
		DaysInMonth: n,
		Thresholds:  th.Clone(),
		Days:        make([]DayView, 0, n),
		Shapes:      make(map[string][]MarkerView, len(reg)+1),
	}

	statuses := make(map[int]classify.DayStatus, n)
	for day := 1; day <= n; day++ {
		dv := DayView{Day: day, Date: domain.Date{Year: m.Year, Month: m.Month, Day: day}.String()}
		var rp *domain.Reading
		if r, ok := days[day]; ok {
			r := r.Clone()
			rp = &r
			dv.Reading = rp
		}
		dv.Status = classify.All(rp, th)
		statuses[day] = dv.Status
		v.Days = append(v.Days, dv)
	}

	for _, shape := range layout.Shapes {
		if _, ok := reg[shape]; !ok {
			continue
		}
		kind := layout.MetricFor(shape)
		v.Shapes[string(shape)] = markers(reg.Place(shape, n), statuses, kind)
	}
	cross := layout.SafetyCross{}
	v.Shapes[ShapeCross] = markers(cross.Place(n), statuses, domain.MetricSafety)
	v.Fillers = cross.Fillers(n)
	return v
}

func markers(placed []layout.Marker, statuses map[int]classify.DayStatus, kind domain.MetricKind) []MarkerView {
	out := make([]MarkerView, 0, len(placed))
	for _, pm := range placed {
		st, ok := statuses[pm.Day]
		if !ok {
			continue
		}
		out = append(out, MarkerView{
			Day:    pm.Day,
			X:      pm.Point.X,
			Y:      pm.Point.Y,
			Status: st.Of(kind),
		})
	}
	return out
}
