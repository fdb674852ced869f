package tube

// LineInfo is the TfL identity of a line: the kebab case id used in
// feed subjects, the rider facing name, the roundel colour, and the
// transport mode.
type LineInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Colour      string `json:"colour"`
	Mode        string `json:"mode"`
}

// FallbackLineColour is used for line ids the registry does not know.
const FallbackLineColour = "#777777"

var tflLines = []LineInfo{
	{ID: "bakerloo", DisplayName: "Bakerloo", Colour: "#B36305", Mode: "tube"},
	{ID: "central", DisplayName: "Central", Colour: "#E32017", Mode: "tube"},
	{ID: "circle", DisplayName: "Circle", Colour: "#FFD300", Mode: "tube"},
	{ID: "district", DisplayName: "District", Colour: "#00782A", Mode: "tube"},
	{ID: "hammersmith-city", DisplayName: "Hammersmith & City", Colour: "#F3A9BB", Mode: "tube"},
	{ID: "jubilee", DisplayName: "Jubilee", Colour: "#A0A5A9", Mode: "tube"},
	{ID: "metropolitan", DisplayName: "Metropolitan", Colour: "#9B0056", Mode: "tube"},
	{ID: "northern", DisplayName: "Northern", Colour: "#000000", Mode: "tube"},
	{ID: "piccadilly", DisplayName: "Piccadilly", Colour: "#003688", Mode: "tube"},
	{ID: "victoria", DisplayName: "Victoria", Colour: "#0098D4", Mode: "tube"},
	{ID: "waterloo-city", DisplayName: "Waterloo & City", Colour: "#95CDBA", Mode: "tube"},
	{ID: "dlr", DisplayName: "DLR", Colour: "#00A4A7", Mode: "dlr"},
	{ID: "elizabeth", DisplayName: "Elizabeth line", Colour: "#6950A1", Mode: "elizabeth-line"},
	{ID: "tram", DisplayName: "Tram", Colour: "#84B817", Mode: "tram"},
	{ID: "cable-car", DisplayName: "IFS Cloud Cable Car", Colour: "#E21836", Mode: "cable-car"},
	{ID: "thameslink", DisplayName: "Thameslink", Colour: "#C1007C", Mode: "national-rail"},
	{ID: "liberty", DisplayName: "Liberty", Colour: "#4C6366", Mode: "overground"},
	{ID: "lioness", DisplayName: "Lioness", Colour: "#FFA32B", Mode: "overground"},
	{ID: "mildmay", DisplayName: "Mildmay", Colour: "#088ECC", Mode: "overground"},
	{ID: "suffragette", DisplayName: "Suffragette", Colour: "#59C274", Mode: "overground"},
	{ID: "weaver", DisplayName: "Weaver", Colour: "#B43983", Mode: "overground"},
	{ID: "windrush", DisplayName: "Windrush", Colour: "#FF2E24", Mode: "overground"},
}

var lineInfoByID = func() map[string]LineInfo {
	m := make(map[string]LineInfo, len(tflLines))
	for _, info := range tflLines {
		m[info.ID] = info
	}
	return m
}()

func GetLineInfo(id string) (LineInfo, bool) {
	info, ok := lineInfoByID[id]
	return info, ok
}

func GetLineColour(id string) string {
	if info, ok := lineInfoByID[id]; ok {
		return info.Colour
	}
	return FallbackLineColour
}

// AllLines returns the registry in its declaration order, tube lines
// first, then the other TfL modes.
func AllLines() []LineInfo {
	out := make([]LineInfo, len(tflLines))
	copy(out, tflLines)
	return out
}
