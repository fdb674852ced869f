package tube

// InnerLondon is the hand authored central London toy network: eleven
// stations and six lines around the West End. Schematic positions live
// on the unit square, real positions are the actual station entrances.
//
// Line declaration order fixes the consecutive stop edge order, do not
// reorder.
func InnerLondon() Network {
	return Network{
		Stations: []StationDef{
			{Name: "Marble Arch", FeatureLoc: [2]float64{0.1, 0.3}, Lat: 51.5136, Lon: -0.1586},
			{Name: "Bond Street", FeatureLoc: [2]float64{0.3, 0.3}, Lat: 51.5142, Lon: -0.1494},
			{Name: "Hyde Park Corner", FeatureLoc: [2]float64{0.2, 0.6}, Lat: 51.5027, Lon: -0.1527},
			{Name: "Green Park", FeatureLoc: [2]float64{0.3, 0.6}, Lat: 51.5067, Lon: -0.1428},
			{Name: "Oxford Circus", FeatureLoc: [2]float64{0.5, 0.4}, Lat: 51.5154, Lon: -0.1410},
			{Name: "Piccadilly Circus", FeatureLoc: [2]float64{0.6, 0.6}, Lat: 51.5098, Lon: -0.1342},
			{Name: "Tottenham Court Road", FeatureLoc: [2]float64{0.7, 0.4}, Lat: 51.5165, Lon: -0.1310},
			{Name: "Westminster", FeatureLoc: [2]float64{0.6, 0.9}, Lat: 51.5010, Lon: -0.1254},
			{Name: "Leicester Square", FeatureLoc: [2]float64{0.7, 0.6}, Lat: 51.5113, Lon: -0.1281},
			{Name: "Charing Cross", FeatureLoc: [2]float64{0.7, 0.8}, Lat: 51.5080, Lon: -0.1247},
			{Name: "Warren Street", FeatureLoc: [2]float64{0.7, 0.0}, Lat: 51.5247, Lon: -0.1384},
		},
		Lines: []LineDef{
			{Name: "Central", TflID: "central",
				Route: []string{"Marble Arch", "Bond Street", "Oxford Circus", "Tottenham Court Road"}},
			{Name: "Victoria", TflID: "victoria",
				Route: []string{"Warren Street", "Oxford Circus", "Green Park"}},
			{Name: "Jubilee", TflID: "jubilee",
				Route: []string{"Bond Street", "Green Park", "Westminster"}},
			{Name: "Northern", TflID: "northern",
				Route: []string{"Warren Street", "Tottenham Court Road", "Leicester Square", "Charing Cross"}},
			{Name: "Piccadilly", TflID: "piccadilly",
				Route: []string{"Hyde Park Corner", "Green Park", "Piccadilly Circus", "Leicester Square"}},
			{Name: "Waterloo", TflID: "waterloo-city",
				Route: []string{"Oxford Circus", "Piccadilly Circus", "Charing Cross"}},
		},
	}
}
