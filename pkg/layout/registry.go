package layout

import (
	"sort"

	"github.com/catflow/catflow/pkg/errors"
)

// The tables below transcribe the cadastral exchange format, one layout
// per supported record type. Offsets are cumulative positions from line
// start; keep them in step with the published format so they stay
// auditable against it.

var supportedTables = []Layout{
	{
		Code: "11",
		FieldEndOffsets: []int{
			2, 23, 25, 28, 30, 44, 50, 52, 77, 80, 83, 123, 153, 158, 163, 188, 192, 193,
			197, 198, 203, 207, 215, 240, 245, 247, 250, 252, 255, 260, 265, 295,
			305, 312, 319, 326, 333, 342, 352, 581, 601, 666,
		},
		FieldNames: []string{
			"tipo_reg", "unused0", "cd", "cmc", "cn", "pc", "unused1", "cp", "np",
			"cmc2", "cm", "nm", "nem", "cv", "tv", "nv", "pnp", "plp", "snp", "slp",
			"km", "bl", "unused2", "td", "dp", "dm", "cma", "czc", "cpo", "cpa",
			"cpaj", "npa", "sup", "sct", "ssr", "sbr", "sc", "xcen", "ycen",
			"unused3", "rc_bice", "n_bice", "srs",
		},
		DropFields: drops("unused0", "unused1", "unused2", "unused3", "rc_bice", "n_bice"),
		ScaledFields: map[string]float64{
			"sup": 1, "sct": 1, "ssr": 1, "sbr": 1, "sc": 1,
			"xcen": 0.01, "ycen": 0.01,
		},
	},
	{
		Code: "13",
		FieldEndOffsets: []int{
			2, 23, 25, 28, 30, 44, 48, 50, 52, 77, 80, 83, 123, 153, 158, 163, 188, 192,
			193, 197, 198, 203, 215, 240, 295, 299, 300, 307, 312, 409,
		},
		FieldNames: []string{
			"tipo_reg", "UNUSED0", "cd", "cmc", "cn", "pc", "cuc", "UNUSED1", "cp",
			"np", "cmc2", "cm", "nm", "nem", "cv", "tv", "nv", "pnp", "plp", "snp", "slp",
			"km", "UNUSED2", "td", "UNUSED3", "ac", "iacons", "so", "lf", "UNUSED4", "cucm",
		},
		DropFields: drops("UNUSED0", "UNUSED1", "UNUSED2", "UNUSED3", "UNUSED4", "cucm"),
	},
	{
		Code: "14",
		FieldEndOffsets: []int{
			2, 23, 25, 28, 30, 44, 48, 50, 54, 58, 62, 64, 67, 70, 73, 74, 78, 82, 83, 90,
			97, 104, 109, 111,
		},
		FieldNames: []string{
			"tipo_reg", "UNUSED0", "cd", "cmc", "UNUSED1", "pc", "noec", "UNUSED2",
			"nobf", "cuc", "bl", "es", "pt", "pu", "cd2", "tr", "ar", "aec", "ili",
			"stl", "spt", "sil", "tip", "UNUSED3", "modl",
		},
		DropFields: drops("UNUSED0", "UNUSED1", "UNUSED2", "UNUSED3", "modl"),
	},
	{
		Code: "15",
		FieldEndOffsets: []int{
			2, 23, 25, 28, 30, 44, 48, 49, 50, 58, 73, 92, 94, 119, 122, 125, 165, 195,
			200, 205, 230, 234, 235, 239, 240, 245, 249, 251, 254, 257, 282, 287, 289,
			292, 294, 297, 302, 307, 337, 367, 371, 375, 427, 428, 441, 451, 461,
		},
		FieldNames: []string{
			"tipo_reg", "UNUSED0", "cd", "cmc", "cn", "pc", "car", "cc1", "cc2",
			"nfbi", "iia", "nfv", "cp", "np", "cmc2", "cm", "nm", "nem", "cv", "tv",
			"nv", "pnp", "plp", "snp", "slp", "km", "bl", "es", "pt", "pu", "td", "dp",
			"dm", "cma", "czc", "cpo", "cpa", "cpaj", "npa", "UNUSED1", "noe", "ant",
			"UNUSED2", "grbice/coduso", "UNUSED3", "sfc", "sfs", "cpt",
		},
		DropFields: drops("UNUSED0", "UNUSED1", "UNUSED2", "UNUSED3", "cpt"),
	},
	{
		Code: "16",
		FieldEndOffsets: []int{
			2, 23, 25, 28, 30, 44, 48, 50, 54, 58, 64, 113, 117, 123, 172, 176, 182, 231, 235,
			241, 290, 294, 300, 349, 353, 359, 408, 412, 418, 467, 471, 477, 526, 530, 536,
			585, 589, 595, 644, 648, 654, 703, 707, 713, 762, 766, 772, 821, 825, 831, 880,
			884, 890, 939,
		},
		// The published format leaves the trailing span past position 939
		// unnamed; it is carried here as UNUSED18 and dropped.
		FieldNames: []string{
			"tipo_reg", "UNUSED0", "cd", "cmc", "UNUSED1", "pc", "noev", "ccsp", "nreg",
			"nc1", "pr1", "UNUSED3", "nc2", "pr2", "UNUSED4", "nc3", "pr3", "UNUSED5",
			"nc4", "pr4", "UNUSED6", "nc5", "pr5", "UNUSED7", "nc6", "pr6", "UNUSED8",
			"nc7", "pr7", "UNUSED9", "nc8", "pr8", "UNUSED10", "nc9", "pr9", "UNUSED11",
			"nc10", "pr10", "UNUSED12", "nc11", "pr11", "UNUSED13", "nc12", "pr12", "UNUSED14",
			"nc13", "pr13", "UNUSED15", "nc14", "pr14", "UNUSED16", "nc15", "pr15", "UNUSED17",
			"UNUSED18",
		},
		DropFields: drops(
			"UNUSED0", "UNUSED1", "UNUSED3", "UNUSED4", "UNUSED5", "UNUSED6",
			"UNUSED7", "UNUSED8", "UNUSED9", "UNUSED10", "UNUSED11", "UNUSED12",
			"UNUSED13", "UNUSED14", "UNUSED15", "UNUSED16", "UNUSED17", "UNUSED18",
		),
		ScaledFields: map[string]float64{
			"pr1": 0.001, "pr2": 0.001, "pr3": 0.001, "pr4": 0.001, "pr5": 0.001,
			"pr6": 0.001, "pr7": 0.001, "pr8": 0.001, "pr9": 0.001, "pr10": 0.001,
			"pr11": 0.001, "pr12": 0.001, "pr13": 0.001, "pr14": 0.001, "pr15": 0.001,
		},
	},
	{
		Code: "17",
		FieldEndOffsets: []int{
			2, 23, 25, 28, 30, 44, 48, 50, 54, 55, 65, 67, 107, 109, 126,
		},
		FieldNames: []string{
			"tipo_reg", "UNUSED0", "cd", "cmc", "cn", "pc", "cspr", "UNUSED1", "nobf",
			"tspr", "ssp", "ccc", "dcc", "ip", "UNUSED2", "modl",
		},
		DropFields: drops("UNUSED0", "UNUSED1", "UNUSED2", "modl"),
	},
}

var registry = func() map[string]Layout {
	m := make(map[string]Layout, len(supportedTables))
	for _, l := range supportedTables {
		if err := l.Validate(); err != nil {
			panic(errors.LayoutInvalid(l.Code, err.Error()))
		}
		if _, dup := m[l.Code]; dup {
			panic(errors.LayoutInvalid(l.Code, "duplicate record-type code"))
		}
		m[l.Code] = l
	}
	return m
}()

// Get returns the layout for a record-type code.
func Get(code string) (Layout, error) {
	l, ok := registry[code]
	if !ok {
		return Layout{}, errors.UnsupportedTable(code, Supported())
	}
	return l, nil
}

// Supported returns the known record-type codes, sorted.
func Supported() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func drops(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
