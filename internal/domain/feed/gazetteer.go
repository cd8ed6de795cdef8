package feed

import (
	"context"
	"strings"
)

// StaticGazetteer resolves well-known place names from a built-in table.
// It stands in for a remote geocoder, which is an external collaborator.
type StaticGazetteer struct {
	coords map[string][2]float64
}

// NewStaticGazetteer returns a gazetteer seeded with common crisis-report
// locations. Extra entries extend or override the defaults.
func NewStaticGazetteer(extra map[string][2]float64) *StaticGazetteer {
	coords := make(map[string][2]float64, len(defaultCoords)+len(extra))
	for k, v := range defaultCoords {
		coords[k] = v
	}
	for k, v := range extra {
		coords[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &StaticGazetteer{coords: coords}
}

// Resolve looks up a place name, case-insensitively
func (g *StaticGazetteer) Resolve(location string) (float64, float64, bool) {
	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" {
		return 0, 0, false
	}
	if c, ok := g.coords[key]; ok {
		return c[0], c[1], true
	}
	return 0, 0, false
}

var defaultCoords = map[string][2]float64{
	"new york":      {40.7128, -74.0060},
	"london":        {51.5074, -0.1278},
	"california":    {36.7783, -119.4179},
	"texas":         {31.9686, -99.9018},
	"japan":         {36.2048, 138.2529},
	"tokyo":         {35.6762, 139.6503},
	"delhi":         {28.6139, 77.2090},
	"mumbai":        {19.0760, 72.8777},
	"bangalore":     {12.9716, 77.5946},
	"hyderabad":     {17.3850, 78.4867},
	"chennai":       {13.0827, 80.2707},
	"kolkata":       {22.5726, 88.3639},
	"kerala":        {10.8505, 76.2711},
	"punjab":        {31.1471, 75.3412},
	"gujarat":       {22.2587, 71.1924},
	"maharashtra":   {19.7515, 75.7139},
	"telangana":     {17.1232, 79.2088},
	"sydney":        {-33.8688, 151.2093},
	"melbourne":     {-37.8136, 144.9631},
	"queensland":    {-20.9176, 142.7028},
	"singapore":     {1.3521, 103.8198},
	"dubai":         {25.2048, 55.2708},
	"istanbul":      {41.0082, 28.9784},
	"paris":         {48.8566, 2.3522},
	"madrid":        {40.4168, -3.7038},
	"rome":          {41.9028, 12.4964},
	"berlin":        {52.5200, 13.4050},
	"moscow":        {55.7558, 37.6173},
	"toronto":       {43.6532, -79.3832},
	"vancouver":     {49.2827, -123.1207},
	"montreal":      {45.5017, -73.5673},
	"mexico city":   {19.4326, -99.1332},
	"sao paulo":     {-23.5558, -46.6396},
	"buenos aires":  {-34.6037, -58.3816},
	"lagos":         {6.5244, 3.3792},
	"nairobi":       {-1.2921, 36.8219},
	"cape town":     {-33.9249, 18.4241},
	"cairo":         {30.0444, 31.2357},
	"manila":        {14.5995, 120.9842},
	"jakarta":       {-6.2088, 106.8456},
	"bangkok":       {13.7563, 100.5018},
	"seoul":         {37.5665, 126.9780},
	"beijing":       {39.9042, 116.4074},
	"shanghai":      {31.2304, 121.4737},
	"hong kong":     {22.3193, 114.1694},
	"los angeles":   {34.0522, -118.2437},
	"san francisco": {37.7749, -122.4194},
	"chicago":       {41.8781, -87.6298},
	"miami":         {25.7617, -80.1918},
	"washington":    {38.9072, -77.0369},
	"boston":        {42.3601, -71.0589},
	"usa":           {37.0902, -95.7129},
	"united states": {37.0902, -95.7129},
	"india":         {20.5937, 78.9629},
	"china":         {35.8617, 104.1954},
	"australia":     {-25.2744, 133.7751},
	"canada":        {56.1304, -106.3468},
	"brazil":        {-14.2350, -51.9253},
	"germany":       {51.1657, 10.4515},
	"france":        {46.2276, 2.2137},
	"italy":         {41.8719, 12.5674},
	"spain":         {40.4637, -3.7492},
	"turkey":        {38.9637, 35.2433},
	"russia":        {61.5240, 105.3188},
	"mexico":        {23.6345, -102.5528},
	"indonesia":     {-0.7893, 113.9213},
	"philippines":   {12.8797, 121.7740},
	"thailand":      {15.8700, 100.9925},
	"pakistan":      {30.3753, 69.3451},
	"bangladesh":    {23.6850, 90.3563},
	"sri lanka":     {7.8731, 80.7718},
	"nepal":         {28.3949, 84.1240},
}

// NeutralSentiment is a placeholder scorer used when no external sentiment
// collaborator is wired. Every text scores neutral.
type NeutralSentiment struct{}

// Score returns a neutral sentiment for any text
func (NeutralSentiment) Score(string) Sentiment {
	return Sentiment{Neutral: 1, Label: "neutral"}
}

// StaticAlerts is an AlertProvider over a fixed alert list, useful for
// replaying provider snapshots and for tests.
type StaticAlerts struct {
	Alerts []ExternalAlert
}

// Fetch returns the fixed alert list regardless of locations
func (s *StaticAlerts) Fetch(_ context.Context, _ []string) ([]ExternalAlert, error) {
	return s.Alerts, nil
}
