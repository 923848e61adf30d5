package analytics

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/emiliopalmerini/pricepaid/internal/dataset"
	"github.com/emiliopalmerini/pricepaid/internal/domain"
	"github.com/emiliopalmerini/pricepaid/internal/logging"
	"github.com/emiliopalmerini/pricepaid/internal/pipeline"
)

// PredictionWindow is how far before the latest sale a prediction date may go.
const PredictionWindow = 3

// DateLayout is the date format accepted from users.
const DateLayout = "2006-01-02"

// ErrInvalidInput is wrapped by every prediction validation failure.
var ErrInvalidInput = errors.New("invalid prediction input")

// PredictionForm returns the choices offered by the prediction page.
func (s *Service) PredictionForm(ctx context.Context) (PredictionForm, error) {
	_, form, err := s.preparePrediction()
	return form, err
}

func (s *Service) preparePrediction() (*pipeline.Pipeline, PredictionForm, error) {
	p, err := s.loadPipeline()
	if err != nil {
		return nil, PredictionForm{}, err
	}
	records, err := s.loadDataset()
	if err != nil {
		return nil, PredictionForm{}, err
	}
	form, err := buildForm(records)
	if err != nil {
		return nil, PredictionForm{}, err
	}
	return p, form, nil
}

func buildForm(records []domain.Record) (PredictionForm, error) {
	_, maxDate, ok := dataset.DateRange(records)
	if !ok {
		return PredictionForm{}, errors.New("dataset has no transfer dates")
	}
	maxDate = time.Date(maxDate.Year(), maxDate.Month(), maxDate.Day(), 0, 0, 0, 0, time.UTC)

	form := PredictionForm{
		PropertyTypes: plainChoices(dataset.Distinct(records, domain.ColPropertyType)),
		Durations:     plainChoices(dataset.Distinct(records, domain.ColDuration)),
		Towns:         plainChoices(dataset.Distinct(records, domain.ColTownCity)),
		Districts:     plainChoices(dataset.Distinct(records, domain.ColDistrict)),
		Counties:      plainChoices(dataset.Distinct(records, domain.ColCounty)),
		MinDate:       maxDate.AddDate(-PredictionWindow, 0, 0),
		MaxDate:       maxDate,
	}

	for _, v := range dataset.Distinct(records, domain.ColOldNew) {
		form.OldNew = append(form.OldNew, Choice{Value: v, Label: oldNewLabel(v)})
	}
	codes := slices.DeleteFunc(dataset.Distinct(records, domain.ColPPDCategory), func(code string) bool {
		_, ok := domain.PPDCategories[code]
		return !ok
	})
	if len(codes) == 0 {
		codes = domain.PPDCodes()
	}
	for _, code := range codes {
		form.PPDCategories = append(form.PPDCategories, Choice{Value: domain.PPDLabel(code), Label: domain.PPDLabel(code)})
	}

	form.Defaults = PredictionInput{
		PropertyType: first(form.PropertyTypes),
		OldNew:       first(form.OldNew),
		Duration:     first(form.Durations),
		TownCity:     first(form.Towns),
		District:     first(form.Districts),
		County:       first(form.Counties),
		PPDCategory:  first(form.PPDCategories),
		Date:         maxDate,
	}
	return form, nil
}

func plainChoices(values []string) []Choice {
	out := make([]Choice, len(values))
	for i, v := range values {
		out[i] = Choice{Value: v, Label: v}
	}
	return out
}

func first(cs []Choice) string {
	if len(cs) == 0 {
		return ""
	}
	return cs[0].Value
}

func oldNewLabel(v string) string {
	flag, err := dataset.ParseOldNew(v)
	if err != nil {
		return v
	}
	if flag == 1 {
		return "New build"
	}
	return "Established"
}

// Predict validates in, estimates the sale price and records it in the
// history. A zero date means the latest sale date in the dataset. History
// failures are logged and do not fail the prediction.
func (s *Service) Predict(ctx context.Context, in PredictionInput) (*domain.Prediction, error) {
	p, form, err := s.preparePrediction()
	if err != nil {
		return nil, err
	}

	features, err := form.Features(in)
	if err != nil {
		return nil, err
	}

	price, err := p.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("failed to predict price: %w", err)
	}

	pred := &domain.Prediction{
		Features:       features,
		PredictedPrice: price,
		CreatedAt:      time.Now().UTC(),
	}

	if s.history != nil {
		if err := s.history.Save(ctx, pred); err != nil {
			s.logger.Warn("failed to record prediction", logging.Err(err))
		}
	}

	s.logger.Info("price predicted", "price", price, "county", in.County)
	return pred, nil
}

// Features validates in against the form and returns the pipeline input.
func (f PredictionForm) Features(in PredictionInput) (domain.Features, error) {
	date := in.Date
	if date.IsZero() {
		date = f.MaxDate
	}
	if date.Before(f.MinDate) || date.After(f.MaxDate) {
		return nil, fmt.Errorf("%w: date must be between %s and %s",
			ErrInvalidInput, f.MinDate.Format(DateLayout), f.MaxDate.Format(DateLayout))
	}

	required := []struct {
		name  string
		value string
	}{
		{domain.ColPropertyType, in.PropertyType},
		{domain.ColOldNew, in.OldNew},
		{domain.ColDuration, in.Duration},
		{domain.ColTownCity, in.TownCity},
		{domain.ColDistrict, in.District},
		{domain.ColCounty, in.County},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, r.name)
		}
	}

	code, ok := domain.PPDCode(in.PPDCategory)
	if !ok {
		return nil, fmt.Errorf("%w: unknown PPD category %q", ErrInvalidInput, in.PPDCategory)
	}

	return domain.Features{
		domain.ColPropertyType: strings.TrimSpace(in.PropertyType),
		domain.ColOldNew:       strings.TrimSpace(in.OldNew),
		domain.ColDuration:     strings.TrimSpace(in.Duration),
		domain.ColTownCity:     strings.TrimSpace(in.TownCity),
		domain.ColDistrict:     strings.TrimSpace(in.District),
		domain.ColCounty:       strings.TrimSpace(in.County),
		domain.ColPPDCategory:  code,
		domain.ColDate:         date.Format(DateLayout),
		domain.ColYear:         strconv.Itoa(date.Year()),
		domain.ColMonth:        strconv.Itoa(int(date.Month())),
	}, nil
}

// ParseDate reads a user-supplied prediction date. An empty string yields
// the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidInput, s)
	}
	return t, nil
}

// History returns the most recent predictions, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*domain.Prediction, error) {
	if s.history == nil || limit <= 0 {
		return nil, nil
	}
	return s.history.ListRecent(ctx, limit)
}
