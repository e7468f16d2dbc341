package generator

import "fmt"

// Defect names used in Stats.Injected and as configuration keys.
const (
	DefectModelWhitespace  = "model_whitespace"
	DefectNullColor        = "null_color"
	DefectMixedYear        = "mixed_year"
	DefectCurrencyMSRP     = "currency_msrp"
	DefectPlaceholderMSRP  = "placeholder_msrp"
	DefectTrimTypo         = "trim_typo"
	DefectTransmissionTypo = "transmission_typo"
	DefectFuelTypo         = "fuel_typo"
	DefectNullInfotainment = "null_infotainment"
	DefectNullInstallDate  = "null_install_date"
	DefectUSDate           = "us_date"
	DefectBooleanText      = "boolean_text"
	DefectDuplicateRow     = "duplicate_row"
)

// DefectRates holds per-row probabilities for each injected defect.
type DefectRates struct {
	ModelWhitespace  float64 `mapstructure:"model_whitespace" yaml:"model_whitespace" json:"model_whitespace"`
	NullColor        float64 `mapstructure:"null_color" yaml:"null_color" json:"null_color"`
	MixedYear        float64 `mapstructure:"mixed_year" yaml:"mixed_year" json:"mixed_year"`
	CurrencyMSRP     float64 `mapstructure:"currency_msrp" yaml:"currency_msrp" json:"currency_msrp"`
	PlaceholderMSRP  float64 `mapstructure:"placeholder_msrp" yaml:"placeholder_msrp" json:"placeholder_msrp"`
	TrimTypo         float64 `mapstructure:"trim_typo" yaml:"trim_typo" json:"trim_typo"`
	TransmissionTypo float64 `mapstructure:"transmission_typo" yaml:"transmission_typo" json:"transmission_typo"`
	FuelTypo         float64 `mapstructure:"fuel_typo" yaml:"fuel_typo" json:"fuel_typo"`
	NullInfotainment float64 `mapstructure:"null_infotainment" yaml:"null_infotainment" json:"null_infotainment"`
	NullInstallDate  float64 `mapstructure:"null_install_date" yaml:"null_install_date" json:"null_install_date"`
	USDate           float64 `mapstructure:"us_date" yaml:"us_date" json:"us_date"`
	BooleanText      float64 `mapstructure:"boolean_text" yaml:"boolean_text" json:"boolean_text"`
}

// DefaultRates is the stock defect mix for the car-equipment dataset.
func DefaultRates() DefectRates {
	return DefectRates{
		ModelWhitespace:  0.20,
		NullColor:        0.18,
		MixedYear:        0.15,
		CurrencyMSRP:     0.12,
		PlaceholderMSRP:  0.10,
		TrimTypo:         0.14,
		TransmissionTypo: 0.12,
		FuelTypo:         0.10,
		NullInfotainment: 0.08,
		NullInstallDate:  0.06,
		USDate:           0.10,
		BooleanText:      0.08,
	}
}

// NoDefects returns all-zero rates.
func NoDefects() DefectRates { return DefectRates{} }

// RateField binds a defect name to its slot in DefectRates.
type RateField struct {
	Name string
	Ptr  *float64
}

// Fields lists every rate in a stable order.
func (r *DefectRates) Fields() []RateField {
	return []RateField{
		{DefectModelWhitespace, &r.ModelWhitespace},
		{DefectNullColor, &r.NullColor},
		{DefectMixedYear, &r.MixedYear},
		{DefectCurrencyMSRP, &r.CurrencyMSRP},
		{DefectPlaceholderMSRP, &r.PlaceholderMSRP},
		{DefectTrimTypo, &r.TrimTypo},
		{DefectTransmissionTypo, &r.TransmissionTypo},
		{DefectFuelTypo, &r.FuelTypo},
		{DefectNullInfotainment, &r.NullInfotainment},
		{DefectNullInstallDate, &r.NullInstallDate},
		{DefectUSDate, &r.USDate},
		{DefectBooleanText, &r.BooleanText},
	}
}

// Set assigns the named rate.
func (r *DefectRates) Set(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("rate %s must be within [0,1], got %g", name, v)
	}
	for _, f := range r.Fields() {
		if f.Name == name {
			*f.Ptr = v
			return nil
		}
	}
	return fmt.Errorf("unknown defect: %s", name)
}

// Validate checks every rate is a probability.
func (r DefectRates) Validate() error {
	for _, f := range r.Fields() {
		if *f.Ptr < 0 || *f.Ptr > 1 {
			return fmt.Errorf("rate %s must be within [0,1], got %g", f.Name, *f.Ptr)
		}
	}
	return nil
}
