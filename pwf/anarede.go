package pwf

// Domain constants of the ANAREDE format.
const (
	// BasePowerMVA is the system base power used downstream of parsing.
	BasePowerMVA = 100.0
	// InfinityLimit is the format's conventional "no limit" magnitude.
	InfinityLimit = 99999
	// DefaultVmax and DefaultVmin bound the default voltage band (pu,
	// stored at scale 1000 in voltage-group fields).
	DefaultVmax = 1.100
	DefaultVmin = 0.950
)

// Sections the format defines that this codec recognizes but does not
// decode. The classifier skips them cleanly with a single warning instead
// of flagging every line.
var anaredeIgnored = []string{
	"DOPC", "QLIM", "DGLT", "DARE", "DGBT", "DGGB", "DTPF", "DCAR",
	"DMFL", "DCTR", "DELO", "DCBA", "DCLI", "DCNV", "DCCV",
}

// Anarede builds the registry for the supported ANAREDE record types:
// TITU (case title), DBAR (buses), DLIN (branches), DGER (generators),
// DCSC (controllable series compensators), DCER (static reactive
// compensators), DBSH (switched shunt banks, multi-line), DSHL (circuit
// shunt devices). Layouts follow the reference mapping. The registry is
// validated at build time; a layout regression panics at startup rather
// than misparsing files.
func Anarede() *Registry {
	reg := NewRegistry()
	schemas := []*RecordSchema{
		tituSchema(),
		dbarSchema(),
		dlinSchema(),
		dgerSchema(),
		dcscSchema(),
		dcerSchema(),
		dbshSchema(),
		dshlSchema(),
	}
	for _, s := range schemas {
		if err := reg.Register(s); err != nil {
			panic(err)
		}
	}
	if err := reg.Ignore(anaredeIgnored...); err != nil {
		panic(err)
	}
	return reg
}

func tituSchema() *RecordSchema {
	return NewRecordSchema("TITU",
		Spec("title", 1, 80, KindText),
	)
}

// dbarSchema lays out bus records. Voltages are per-unit stored as
// millesimals without a decimal point ("1050" is 1.050 pu); power
// quantities carry explicit decimal points.
func dbarSchema() *RecordSchema {
	return NewRecordSchema("DBAR",
		Spec("number", 1, 5, KindInt),
		Spec("operation", 6, 6, KindEnum, WithCodes("A", "E", "M")),
		Spec("state", 7, 7, KindEnum, WithCodes("L", "D")),
		Spec("type", 8, 8, KindInt),
		Spec("base_voltage_group", 9, 10, KindText),
		Spec("name", 11, 22, KindText),
		Spec("voltage_limit_group", 23, 24, KindText),
		Spec("voltage", 25, 28, KindDecimal, WithScale(1000), WithDefault(Dec(1000, 1000))),
		Spec("angle", 29, 32, KindFixed),
		Spec("active_generation", 33, 37, KindFixed),
		Spec("reactive_generation", 38, 42, KindFixed),
		// -99999 would not fit the 5-column slice; the format uses the
		// short form for the lower bound.
		Spec("min_reactive", 43, 47, KindFixed, WithDefault(Fix(-9999, 1))),
		Spec("max_reactive", 48, 52, KindFixed, WithDefault(Fix(InfinityLimit, 1))),
		Spec("controlled_bus", 53, 58, KindInt),
		Spec("active_load", 59, 63, KindFixed),
		Spec("reactive_load", 64, 68, KindFixed),
		Spec("capacitor_reactor", 69, 73, KindFixed),
		Spec("area", 74, 76, KindInt, WithDefault(Int(1))),
		Spec("load_voltage", 77, 80, KindDecimal, WithScale(1000), WithDefault(Dec(1000, 1000))),
	)
}

func dlinSchema() *RecordSchema {
	return NewRecordSchema("DLIN",
		Spec("from_bus", 1, 5, KindInt),
		Spec("open_from", 6, 6, KindFlag, WithMark("D")),
		Spec("operation", 8, 8, KindEnum, WithCodes("A", "E", "M")),
		Spec("open_to", 10, 10, KindFlag, WithMark("D")),
		Spec("to_bus", 11, 15, KindInt),
		Spec("circuit", 16, 17, KindInt, WithDefault(Int(1))),
		Spec("state", 18, 18, KindEnum, WithCodes("L", "D")),
		Spec("owner", 19, 19, KindText),
		Spec("resistance", 21, 26, KindFixed),
		Spec("reactance", 27, 32, KindFixed),
		Spec("susceptance", 33, 38, KindFixed),
		Spec("tap", 39, 43, KindFixed, WithDefault(Fix(1, 1))),
		Spec("tap_min", 44, 48, KindFixed),
		Spec("tap_max", 49, 53, KindFixed),
		Spec("phase_shift", 54, 58, KindFixed),
		Spec("controlled_bus", 59, 64, KindInt),
		Spec("normal_capacity", 65, 68, KindFixed, WithDefault(Fix(9999, 1))),
		Spec("emergency_capacity", 69, 72, KindFixed, WithDefault(Fix(9999, 1))),
		Spec("tap_steps", 73, 74, KindInt),
		Spec("equipment_capacity", 75, 78, KindFixed, WithDefault(Fix(9999, 1))),
	)
}

func dgerSchema() *RecordSchema {
	return NewRecordSchema("DGER",
		Spec("number", 1, 5, KindInt),
		Spec("operation", 7, 7, KindEnum, WithCodes("A", "E", "M")),
		Spec("min_active", 9, 14, KindFixed),
		Spec("max_active", 16, 21, KindFixed, WithDefault(Fix(InfinityLimit, 1))),
		Spec("participation_factor", 23, 27, KindFixed),
		Spec("remote_participation_factor", 29, 33, KindFixed, WithDefault(Fix(100, 1))),
		Spec("nominal_power_factor", 35, 39, KindFixed),
		Spec("armature_service_factor", 41, 44, KindFixed),
		Spec("rotor_service_factor", 46, 49, KindFixed),
		Spec("max_angle", 51, 54, KindFixed),
		Spec("quadrature_reactance", 56, 60, KindFixed),
		Spec("nominal_apparent_power", 62, 66, KindFixed),
	)
}

func dcscSchema() *RecordSchema {
	return NewRecordSchema("DCSC",
		Spec("from_bus", 1, 5, KindInt),
		Spec("operation", 8, 8, KindEnum, WithCodes("A", "E", "M")),
		Spec("to_bus", 10, 14, KindInt),
		Spec("circuit", 15, 16, KindInt, WithDefault(Int(1))),
		Spec("state", 18, 18, KindEnum, WithCodes("L", "D")),
		Spec("owner", 20, 20, KindText),
		Spec("bypass", 22, 22, KindEnum, WithCodes("D", "L")),
		Spec("min_reactance", 24, 29, KindFixed, WithDefault(Fix(-InfinityLimit, 1))),
		Spec("max_reactance", 31, 36, KindFixed, WithDefault(Fix(InfinityLimit, 1))),
		Spec("initial_reactance", 38, 43, KindFixed),
		Spec("control_mode", 45, 45, KindEnum, WithCodes("X", "I", "C")),
		Spec("specified_value", 47, 52, KindFixed),
		Spec("measurement_terminal", 54, 58, KindInt),
		Spec("stages", 60, 62, KindInt, WithDefault(Int(1))),
	)
}

func dcerSchema() *RecordSchema {
	return NewRecordSchema("DCER",
		Spec("bus", 1, 5, KindInt),
		Spec("operation", 7, 7, KindEnum, WithCodes("A", "E", "M")),
		Spec("group", 9, 10, KindInt, WithDefault(Int(1))),
		Spec("units", 12, 14, KindInt, WithDefault(Int(1))),
		Spec("controlled_bus", 16, 20, KindInt),
		Spec("slope", 22, 27, KindFixed),
		Spec("reactive_generation", 29, 34, KindFixed),
		Spec("min_reactive", 36, 42, KindFixed),
		Spec("max_reactive", 44, 50, KindFixed),
		Spec("control_mode", 52, 52, KindEnum, WithCodes("I", "Q")),
		Spec("state", 54, 54, KindEnum, WithCodes("L", "D")),
	)
}

// dbshSchema is the one multi-line type: a bank-group header line followed
// by one line per capacitor/reactor bank, closed by the FBAN marker.
func dbshSchema() *RecordSchema {
	return NewGroupedSchema("DBSH", "banks", "FBAN",
		[]FieldSpec{
			Spec("from_bus", 1, 5, KindInt),
			Spec("operation", 7, 7, KindEnum, WithCodes("A", "E", "M")),
			Spec("to_bus", 9, 13, KindInt),
			Spec("circuit", 15, 16, KindInt, WithDefault(Int(1))),
			Spec("control_mode", 18, 18, KindEnum, WithCodes("C", "D", "F")),
			Spec("min_voltage", 20, 23, KindDecimal, WithScale(1000), WithDefault(Dec(950, 1000))),
			Spec("max_voltage", 25, 28, KindDecimal, WithScale(1000), WithDefault(Dec(1100, 1000))),
			Spec("controlled_bus", 30, 34, KindInt),
			Spec("initial_injection", 36, 41, KindFixed),
			Spec("control_type", 43, 43, KindText),
			Spec("terminal_bus", 47, 51, KindInt),
		},
		[]FieldSpec{
			Spec("group", 1, 2, KindInt, WithDefault(Int(1))),
			Spec("operation", 4, 4, KindEnum, WithCodes("A", "E", "M")),
			Spec("state", 7, 7, KindEnum, WithCodes("L", "D")),
			Spec("units", 9, 11, KindInt, WithDefault(Int(1))),
			Spec("units_in_operation", 13, 15, KindInt, WithDefault(Int(1))),
			Spec("unit_reactive", 17, 22, KindFixed),
		},
	)
}

func dshlSchema() *RecordSchema {
	return NewRecordSchema("DSHL",
		Spec("from_bus", 1, 5, KindInt),
		Spec("operation", 7, 7, KindEnum, WithCodes("A", "E", "M")),
		Spec("to_bus", 10, 14, KindInt),
		Spec("circuit", 15, 16, KindInt, WithDefault(Int(1))),
		Spec("shunt_from", 18, 23, KindFixed),
		Spec("shunt_to", 24, 29, KindFixed),
		Spec("state_from", 31, 32, KindEnum, WithCodes("L", "D")),
		Spec("state_to", 34, 35, KindEnum, WithCodes("L", "D")),
	)
}
