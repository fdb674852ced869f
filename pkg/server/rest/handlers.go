package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/geo"
	"github.com/roundel-labs/tubegraph/pkg/guidance"
	"github.com/roundel-labs/tubegraph/pkg/server"
	"github.com/roundel-labs/tubegraph/pkg/tube"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type TubeService interface {
	ListStations(ctx context.Context) []datastructure.Station
	ListLines(ctx context.Context) []datastructure.Line
	GraphTensor(ctx context.Context) (*datastructure.GraphTensor, datastructure.Metadata)
	PlanJourney(ctx context.Context, from, to string) (string, float64, []guidance.JourneyLeg, float64, error)
	NearestStations(ctx context.Context, lat, lon float64, k int) ([]datastructure.Station, []float64, error)
}

type TubeHandler struct {
	svc     TubeService
	metrics *Metrics
}

func TubeRouter(r *chi.Mux, svc TubeService, m *Metrics) {
	handler := &TubeHandler{svc: svc, metrics: m}

	r.Group(func(r chi.Router) {
		r.Route("/api/tube", func(r chi.Router) {
			r.Get("/stations", handler.Stations)
			r.Get("/lines", handler.Lines)
			r.Get("/graph", handler.Graph)
			r.Post("/journeys", handler.PlanJourney)
			r.Post("/nearest-stations", handler.NearestStations)
		})
	})
}

// Coord model info
//
//	@Description	model for a wgs84 coordinate
type Coord struct {
	Lat float64 `json:"lat" validate:"required,lt=90,gt=-90"`
	Lon float64 `json:"lon" validate:"required,lt=180,gt=-180"`
}

// StationResponse model info
//
//	@Description	one station of the network with the lines serving it
type StationResponse struct {
	ID          int32    `json:"id"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Interchange bool     `json:"interchange"`
	Lines       []string `json:"lines"`
}

// StationsResponse model info
//
//	@Description	response body for the station listing
type StationsResponse struct {
	Stations []StationResponse `json:"stations"`
}

func RenderStationsResponse(stations []datastructure.Station, lines []datastructure.Line) *StationsResponse {
	lineNames := make(map[int32]string, len(lines))
	for _, line := range lines {
		lineNames[line.ID] = line.Name
	}

	stationsResp := make([]StationResponse, 0, len(stations))
	for _, st := range stations {
		names := make([]string, 0, len(st.LineIDs))
		for _, lineID := range st.LineIDs {
			names = append(names, lineNames[lineID])
		}
		stationsResp = append(stationsResp, StationResponse{
			ID:          st.ID,
			Name:        st.Name,
			Lat:         st.Loc.Lat,
			Lon:         st.Loc.Lon,
			Interchange: st.Interchange,
			Lines:       names,
		})
	}
	return &StationsResponse{Stations: stationsResp}
}

// Stations
//
//	@Summary		list every station of the network with its graph index, coordinates, serving lines and interchange flag
//	@Description	list every station of the network. The id is the station row index used by the graph tensors.
//	@Tags			tube
//	@Produce		application/json
//	@Router			/tube/stations [get]
//	@Success		200	{object}	StationsResponse
func (h *TubeHandler) Stations(w http.ResponseWriter, r *http.Request) {
	stations := h.svc.ListStations(r.Context())
	lines := h.svc.ListLines(r.Context())

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderStationsResponse(stations, lines))
}

// LineResponse model info
//
//	@Description	one line with its roundel colour and route in stop order
type LineResponse struct {
	ID     int32    `json:"id"`
	Name   string   `json:"name"`
	TflID  string   `json:"tfl_id"`
	Colour string   `json:"colour"`
	Mode   string   `json:"mode,omitempty"`
	Route  []string `json:"route"`
}

// LinesResponse model info
//
//	@Description	response body for the line listing
type LinesResponse struct {
	Lines []LineResponse `json:"lines"`
}

func RenderLinesResponse(lines []datastructure.Line, stations []datastructure.Station) *LinesResponse {
	stationNames := make(map[int32]string, len(stations))
	for _, st := range stations {
		stationNames[st.ID] = st.Name
	}

	linesResp := make([]LineResponse, 0, len(lines))
	for _, line := range lines {
		route := make([]string, 0, len(line.Route))
		for _, stationID := range line.Route {
			route = append(route, stationNames[stationID])
		}
		mode := ""
		if info, ok := tube.GetLineInfo(line.TflID); ok {
			mode = info.Mode
		}
		linesResp = append(linesResp, LineResponse{
			ID:     line.ID,
			Name:   line.Name,
			TflID:  line.TflID,
			Colour: line.Colour,
			Mode:   mode,
			Route:  route,
		})
	}
	return &LinesResponse{Lines: linesResp}
}

// Lines
//
//	@Summary		list every line with its graph index, tfl id, roundel colour and route
//	@Description	list every line of the network. The id is the line index used by the node feature tensor.
//	@Tags			tube
//	@Produce		application/json
//	@Router			/tube/lines [get]
//	@Success		200	{object}	LinesResponse
func (h *TubeHandler) Lines(w http.ResponseWriter, r *http.Request) {
	lines := h.svc.ListLines(r.Context())
	stations := h.svc.ListStations(r.Context())

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderLinesResponse(lines, stations))
}

// GraphResponse model info
//
//	@Description	the gnn input tensors: node features, edge index columns and edge weights
type GraphResponse struct {
	NodeFeatures [][3]float64           `json:"node_features"`
	EdgeIndex    [2][]int32             `json:"edge_index"`
	EdgeWeights  []int32                `json:"edge_weights"`
	Metadata     datastructure.Metadata `json:"metadata"`
}

// Graph
//
//	@Summary		full tensor payload of the station-line graph
//	@Description	node features (x, y, line idx), edge index (source row, target row) and edge weights in minutes, plus the graph counts.
//	@Tags			tube
//	@Produce		application/json
//	@Router			/tube/graph [get]
//	@Success		200	{object}	GraphResponse
func (h *TubeHandler) Graph(w http.ResponseWriter, r *http.Request) {
	tensor, meta := h.svc.GraphTensor(r.Context())

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &GraphResponse{
		NodeFeatures: tensor.NodeFeatures,
		EdgeIndex:    tensor.EdgeIndex,
		EdgeWeights:  tensor.EdgeWeights,
		Metadata:     meta,
	})
}

// JourneyRequest model info
//
//	@Description	request body for journey planning between two stations
type JourneyRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

func (s *JourneyRequest) Bind(r *http.Request) error {
	if s.From == "" || s.To == "" {
		return errors.New("invalid request")
	}
	return nil
}

// JourneyLegResponse model info
//
//	@Description	one leg of a planned journey
type JourneyLegResponse struct {
	Instruction string  `json:"instruction"`
	Sign        int     `json:"sign"`
	Line        string  `json:"line,omitempty"`
	Colour      string  `json:"colour,omitempty"`
	Station     string  `json:"station"`
	Point       Coord   `json:"point"`
	Stops       int     `json:"stops,omitempty"`
	Time        float64 `json:"time_mins"`
	Path        string  `json:"path,omitempty"`
}

// JourneyResponse model info
//
//	@Description	response body for journey planning
type JourneyResponse struct {
	Path         string               `json:"path"`
	ETA          float64              `json:"eta_mins"`
	Heading      float64              `json:"heading"`
	Legs         []JourneyLegResponse `json:"legs"`
	Instructions []string             `json:"instructions"`
}

func RenderJourneyResponse(path string, eta float64, legs []guidance.JourneyLeg, heading float64) *JourneyResponse {
	legsResp := make([]JourneyLegResponse, 0, len(legs))
	instructions := make([]string, 0, len(legs))
	for _, leg := range legs {
		legsResp = append(legsResp, JourneyLegResponse{
			Instruction: leg.Instruction,
			Sign:        leg.Sign,
			Line:        leg.LineName,
			Colour:      leg.LineColour,
			Station:     leg.StationName,
			Point: Coord{
				Lat: leg.Point.Lat,
				Lon: leg.Point.Lon,
			},
			Stops: leg.Stops,
			Time:  leg.Time,
			Path:  datastructure.CreatePolyline(geo.RamesDouglasPeucker(leg.Geometry)),
		})
		instructions = append(instructions, leg.Instruction)
	}

	return &JourneyResponse{
		Path:         path,
		ETA:          eta,
		Heading:      heading,
		Legs:         legsResp,
		Instructions: instructions,
	}
}

// PlanJourney
//
//	@Summary		plan the fastest journey between two stations
//	@Description	plan the fastest journey between two stations by name. Returns the total journey time in minutes, the board/ride/change/alight legs and the encoded polyline of the station path.
//	@Tags			tube
//	@Param			body	body	JourneyRequest	true	"origin and destination station names"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/tube/journeys [post]
//	@Success		200	{object}	JourneyResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *TubeHandler) PlanJourney(w http.ResponseWriter, r *http.Request) {
	data := &JourneyRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	path, eta, legs, heading, err := h.svc.PlanJourney(r.Context(), data.From, data.To)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	h.metrics.journeysPlanned.Inc()

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderJourneyResponse(path, eta, legs, heading))
}

// NearestStationsRequest model info
//
//	@Description	request body for the k nearest station lookup
type NearestStationsRequest struct {
	Lat float64 `json:"lat" validate:"required,lt=90,gt=-90"`
	Lon float64 `json:"lon" validate:"required,lt=180,gt=-180"`
	K   int     `json:"k" validate:"required,gte=1,lte=50"`
}

func (s *NearestStationsRequest) Bind(r *http.Request) error {
	if s.K == 0 {
		return errors.New("invalid request")
	}
	return nil
}

// NearestStationResponse model info
//
//	@Description	one nearby station with its distance from the query point
type NearestStationResponse struct {
	Station        StationResponse `json:"station"`
	DistanceMeters float64         `json:"distance_meters"`
}

// NearestStationsResponse model info
//
//	@Description	response body for the k nearest station lookup
type NearestStationsResponse struct {
	Stations []NearestStationResponse `json:"stations"`
}

func RenderNearestStationsResponse(stations []datastructure.Station, dists []float64, lines []datastructure.Line) *NearestStationsResponse {
	listed := RenderStationsResponse(stations, lines)

	nearResp := make([]NearestStationResponse, 0, len(stations))
	for i := range listed.Stations {
		nearResp = append(nearResp, NearestStationResponse{
			Station:        listed.Stations[i],
			DistanceMeters: dists[i],
		})
	}
	return &NearestStationsResponse{Stations: nearResp}
}

// NearestStations
//
//	@Summary		k nearest stations from a coordinate
//	@Description	k nearest stations from a wgs84 coordinate, nearest first, with great circle distances in meters.
//	@Tags			tube
//	@Param			body	body	NearestStationsRequest	true	"query coordinate and k"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/tube/nearest-stations [post]
//	@Success		200	{object}	NearestStationsResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *TubeHandler) NearestStations(w http.ResponseWriter, r *http.Request) {
	data := &NearestStationsRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	stations, dists, err := h.svc.NearestStations(r.Context(), data.Lat, data.Lon, data.K)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	lines := h.svc.ListLines(r.Context())

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderNearestStationsResponse(stations, dists, lines))
}

func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, server.ErrNotFound):
		render.Render(w, r, ErrNotFoundRend(err))
	case errors.Is(err, server.ErrBadParamInput):
		render.Render(w, r, ErrInvalidRequest(err))
	default:
		render.Render(w, r, ErrInternalServerErrorRend(errors.New("internal server error")))
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrNotFoundRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 404,
		StatusText:     "Resource not found.",
		ErrorText:      err.Error(),
	}
}

// ErrResponse model info
//
//	@Description	model for the error response envelope
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}
