// Package generator builds the synthetic car-equipment dataset with
// deliberately injected data-quality defects.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"time"

	"github.com/KaramelBytes/carlot-cli/internal/dataset"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const seedStream = 0x9e3779b97f4a7c15

// Options controls dataset generation.
type Options struct {
	// Rows is the total row count, duplicates included.
	Rows int
	// Seed feeds the PRNG; equal seeds produce equal tables.
	Seed int64
	// DuplicateRate is the fraction of rows that are exact copies of other rows.
	DuplicateRate float64
	// MinDuplicates is the floor applied to the duplicate count.
	MinDuplicates int
	Rates         DefectRates
}

// DefaultOptions returns the playground defaults: 30 rows, seed 7, one sixth duplicates.
func DefaultOptions() Options {
	return Options{
		Rows:          30,
		Seed:          7,
		DuplicateRate: 1.0 / 6.0,
		MinDuplicates: 2,
		Rates:         DefaultRates(),
	}
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	if o.Rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", o.Rows)
	}
	if o.DuplicateRate < 0 || o.DuplicateRate > 1 {
		return fmt.Errorf("duplicate rate must be within [0,1], got %g", o.DuplicateRate)
	}
	if o.MinDuplicates < 0 {
		return errors.New("min duplicates must not be negative")
	}
	return o.Rates.Validate()
}

// Stats records what the generator injected.
type Stats struct {
	Rows       int
	BaseRows   int
	Duplicates int
	// Injected counts defects applied to base rows, keyed by defect name.
	Injected map[string]int
}

// Lines renders the injected counts in a stable order.
func (s Stats) Lines() []string {
	names := make([]string, 0, len(s.Injected))
	for k := range s.Injected {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, fmt.Sprintf("%s: %d", n, s.Injected[n]))
	}
	return out
}

// DuplicateCount returns how many duplicate rows a table of the given size
// receives. At least one base row always remains.
func DuplicateCount(rows int, rate float64, minDuplicates int) int {
	d := int(math.Floor(float64(rows)*rate + 1e-9))
	if d < minDuplicates {
		d = minDuplicates
	}
	if d > rows-1 {
		d = rows - 1
	}
	if d < 0 {
		d = 0
	}
	return d
}

// Generate builds a table of opt.Rows rows with defects injected at the
// configured rates, then appends exact duplicates and shuffles.
func Generate(opt Options) (*dataset.Table, Stats, error) {
	if err := opt.Validate(); err != nil {
		return nil, Stats{}, err
	}
	b := &builder{
		rng:      rand.New(rand.NewPCG(uint64(opt.Seed), seedStream)),
		rates:    opt.Rates,
		injected: make(map[string]int),
		money:    message.NewPrinter(language.English),
	}
	dups := DuplicateCount(opt.Rows, opt.DuplicateRate, opt.MinDuplicates)
	base := opt.Rows - dups

	rows := make([][]dataset.Cell, 0, opt.Rows)
	for i := 0; i < base; i++ {
		rows = append(rows, b.row(i))
	}
	for i := 0; i < dups; i++ {
		src := rows[b.rng.IntN(base)]
		cp := make([]dataset.Cell, len(src))
		copy(cp, src)
		rows = append(rows, cp)
	}
	b.rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

	t := dataset.NewTable(Columns)
	t.Rows = rows
	b.injected[DefectDuplicateRow] = dups
	return t, Stats{Rows: opt.Rows, BaseRows: base, Duplicates: dups, Injected: b.injected}, nil
}

type builder struct {
	rng      *rand.Rand
	rates    DefectRates
	injected map[string]int
	money    *message.Printer
}

func (b *builder) pick(vals []string) string { return vals[b.rng.IntN(len(vals))] }

func (b *builder) hit(rate float64, defect string) bool {
	if b.rng.Float64() < rate {
		b.injected[defect]++
		return true
	}
	return false
}

func (b *builder) row(idx int) []dataset.Cell {
	mk := b.pick(makes)
	model := b.pick(modelsByMake[mk])
	year := 2013 + b.rng.IntN(11)
	msrp := 22000 + 500*b.rng.IntN(96)
	trim := b.pick(trims)
	installed := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, b.rng.IntN(365))
	inService := b.rng.Float64() < 0.8

	cells := map[string]dataset.Cell{
		ColCarID:         dataset.Text(fmt.Sprintf("C%03d", idx+1)),
		ColMake:          dataset.Text(mk),
		ColModel:         dataset.Text(model),
		ColModelYear:     dataset.Text(strconv.Itoa(year)),
		ColTrimLevel:     dataset.Text(trim),
		ColExteriorColor: dataset.Text(b.pick(colors)),
		ColTransmission:  dataset.Text(b.pick(transmissions)),
		ColFuelType:      dataset.Text(b.pick(fuels)),
		ColInfotainment:  dataset.Text(b.pick(infotainment)),
		ColEquipmentCode: dataset.Text(fmt.Sprintf("EQ-%04d", b.rng.IntN(10000))),
		ColInstallDate:   dataset.Text(installed.Format("2006-01-02")),
		ColMSRP:          dataset.Text(strconv.Itoa(msrp)),
		ColInService:     dataset.Text(strconv.FormatBool(inService)),
	}

	if b.hit(b.rates.ModelWhitespace, DefectModelWhitespace) {
		cells[ColModel] = dataset.Text(" " + model + "  ")
	}
	if b.hit(b.rates.NullColor, DefectNullColor) {
		cells[ColExteriorColor] = dataset.Null()
	}
	if b.hit(b.rates.MixedYear, DefectMixedYear) {
		cells[ColModelYear] = dataset.Text(strconv.Itoa(year) + ".0")
	}
	currency := b.hit(b.rates.CurrencyMSRP, DefectCurrencyMSRP)
	if currency {
		cells[ColMSRP] = dataset.Text(b.money.Sprintf("$%d", msrp))
	}
	if b.hit(b.rates.PlaceholderMSRP, DefectPlaceholderMSRP) {
		if currency {
			b.injected[DefectCurrencyMSRP]--
		}
		cells[ColMSRP] = dataset.Text("N/A")
	}
	if b.rng.Float64() < b.rates.TrimTypo {
		if v := b.pick(append(trimTypos[:len(trimTypos):len(trimTypos)], trim)); v != trim {
			b.injected[DefectTrimTypo]++
			cells[ColTrimLevel] = dataset.Text(v)
		}
	}
	if b.hit(b.rates.TransmissionTypo, DefectTransmissionTypo) {
		cells[ColTransmission] = dataset.Text(b.pick(transmissionTypos))
	}
	if b.rng.Float64() < b.rates.FuelTypo {
		fuel := cells[ColFuelType].Value
		if v := b.pick(append(fuelTypos[:len(fuelTypos):len(fuelTypos)], fuel)); v != fuel {
			b.injected[DefectFuelTypo]++
			cells[ColFuelType] = dataset.Text(v)
		}
	}
	if b.hit(b.rates.NullInfotainment, DefectNullInfotainment) {
		cells[ColInfotainment] = dataset.Null()
	}
	if b.hit(b.rates.NullInstallDate, DefectNullInstallDate) {
		cells[ColInstallDate] = dataset.Null()
	} else if b.hit(b.rates.USDate, DefectUSDate) {
		cells[ColInstallDate] = dataset.Text(installed.Format("01/02/2006"))
	}
	if b.hit(b.rates.BooleanText, DefectBooleanText) {
		cells[ColInService] = dataset.Text(booleanVariants[inService])
	}

	row := make([]dataset.Cell, len(Columns))
	for i, c := range Columns {
		row[i] = cells[c]
	}
	return row
}
