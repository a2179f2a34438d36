package converter

import (
	"encoding/json"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/pkg/pgconv"
)

type windowJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func RuleToInfra(r *availability.Rule) (pgquery.UpsertAvailabilityRuleParams, error) {
	windows := r.Windows()
	rows := make([]windowJSON, 0, len(windows))
	for _, w := range windows {
		rows = append(rows, windowJSON{Start: w.Start().String(), End: w.End().String()})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return pgquery.UpsertAvailabilityRuleParams{}, errs.Wrap(err, "marshal availability windows")
	}
	return pgquery.UpsertAvailabilityRuleParams{
		ServiceID: r.ServiceID(),
		DayOfWeek: int16(r.Day().Int()), // #nosec G115 -- 0..6
		Windows:   raw,
		UpdatedAt: pgconv.TimeToPgtype(r.UpdatedAt()),
	}, nil
}

func RuleFromInfra(row pgquery.AvailabilityRule) (*availability.Rule, error) {
	day, err := availability.NewDayOfWeek(int(row.DayOfWeek))
	if err != nil {
		return nil, err
	}
	var rows []windowJSON
	if err := json.Unmarshal(row.Windows, &rows); err != nil {
		return nil, errs.Wrap(err, "unmarshal availability windows")
	}
	windows := make([]availability.TimeWindow, 0, len(rows))
	for _, w := range rows {
		tw, err := availability.ParseTimeWindow(w.Start, w.End)
		if err != nil {
			return nil, err
		}
		windows = append(windows, tw)
	}
	return availability.ReconstructRule(row.ServiceID, day, windows, pgconv.TimeFromPgtype(row.UpdatedAt)), nil
}
