package generator

// Column names in output order.
const (
	ColCarID         = "car_id"
	ColMake          = "make"
	ColModel         = "model"
	ColModelYear     = "model_year"
	ColTrimLevel     = "trim_level"
	ColExteriorColor = "exterior_color"
	ColTransmission  = "transmission"
	ColFuelType      = "fuel_type"
	ColInfotainment  = "infotainment_system"
	ColEquipmentCode = "equipment_code"
	ColInstallDate   = "install_date"
	ColMSRP          = "msrp"
	ColInService     = "in_service"
)

// Columns is the CSV header written by the generator.
var Columns = []string{
	ColCarID, ColMake, ColModel, ColModelYear, ColTrimLevel, ColExteriorColor,
	ColTransmission, ColFuelType, ColInfotainment, ColEquipmentCode,
	ColInstallDate, ColMSRP, ColInService,
}

var makes = []string{"Toyota", "Honda", "Ford", "BMW", "Tesla"}

var modelsByMake = map[string][]string{
	"Toyota": {"Corolla", "Camry", "RAV4", "Prius"},
	"Honda":  {"Civic", "Accord", "CR-V", "Pilot"},
	"Ford":   {"Focus", "Fusion", "Escape", "Explorer"},
	"BMW":    {"320i", "X5", "X3", "M3"},
	"Tesla":  {"Model S", "Model 3", "Model X", "Model Y"},
}

var (
	trims         = []string{"Base", "Sport", "Premium", "Limited"}
	colors        = []string{"Red", "Blue", "Black", "White", "Silver", "Gray"}
	transmissions = []string{"automatic", "manual", "CVT", "dual clutch"}
	fuels         = []string{"gasoline", "diesel", "hybrid", "electric"}
	infotainment  = []string{"Basic Audio", "Touchscreen", "Premium Audio", "Navigation"}
)

var (
	trimTypos         = []string{"standart", "Premuim", "luxary"}
	transmissionTypos = []string{"Automtic", "manuall", "automatic ", "AUTOMATIC"}
	fuelTypos         = []string{"gasolen", "deisel"}
	booleanVariants   = map[bool]string{true: "yes", false: "no"}
)

// ExpectedValues returns the clean domain of every categorical column.
func ExpectedValues() map[string][]string {
	return map[string][]string{
		ColMake:          append([]string(nil), makes...),
		ColTrimLevel:     append([]string(nil), trims...),
		ColExteriorColor: append([]string(nil), colors...),
		ColTransmission:  append([]string(nil), transmissions...),
		ColFuelType:      append([]string(nil), fuels...),
		ColInfotainment:  append([]string(nil), infotainment...),
	}
}

// NumericColumns lists columns whose clean type is numeric.
func NumericColumns() []string {
	return []string{ColModelYear, ColMSRP}
}
