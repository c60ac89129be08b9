package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/assessor/internal/api"
	"github.com/jackzampolin/assessor/internal/catalog"
	"github.com/jackzampolin/assessor/internal/recommend"
	"github.com/jackzampolin/assessor/internal/render"
	"github.com/jackzampolin/assessor/internal/svcctx"
)

// maxRequestBody bounds the POST /recommend body.
const maxRequestBody = 1 << 20

// RecommendRequest is the request body for POST /recommend.
type RecommendRequest struct {
	Query string `json:"query"`
	// MaxRecommendations defaults to recommend.max_recommendations when omitted.
	MaxRecommendations *int `json:"max_recommendations,omitempty"`
}

// RecommendEndpoint handles POST /recommend.
type RecommendEndpoint struct{}

func (e *RecommendEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/recommend", e.handler
}

func (e *RecommendEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Recommend assessments
//	@Description	Rank catalog assessments for a job description or free-text query.
//	@Description	Model or parsing failures are answered with a single fallback item, never a 5xx.
//	@Tags			recommend
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RecommendRequest	true	"Query and optional result limit"
//	@Success		200		{object}	recommend.Result
//	@Failure		400		{object}	ErrorResponse	"Malformed body, empty or whitespace-only query, or max_recommendations below 1"
//	@Failure		413		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/recommend [post]
func (e *RecommendEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorDetail(w, http.StatusRequestEntityTooLarge, "request body too large", err.Error())
			return
		}
		writeErrorDetail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeErrorDetail(w, http.StatusBadRequest, "Query cannot be empty", "query must contain non-whitespace text")
		return
	}

	limit := 0
	if req.MaxRecommendations != nil {
		if *req.MaxRecommendations < 1 {
			writeError(w, http.StatusBadRequest, "max_recommendations must be at least 1")
			return
		}
		limit = *req.MaxRecommendations
	}

	svc := svcctx.RecommenderFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "recommendation service not initialized")
		return
	}

	writeJSON(w, http.StatusOK, svc.Recommend(r.Context(), req.Query, limit))
}

func (e *RecommendEndpoint) Command(getServerURL func() string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recommend <query>",
		Short: "Ask the server for assessment recommendations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := RecommendRequest{Query: strings.Join(args, " ")}
			if cmd.Flags().Changed("max") {
				req.MaxRecommendations = &limit
			}

			client := api.NewClient(getServerURL())
			var resp recommend.Result
			if err := client.Post(cmd.Context(), "/recommend", req, &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			render.RecommendationsTable(os.Stdout, resp)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "max", 10, "Maximum number of recommendations")
	return cmd
}

// CatalogResponse is the response for GET /catalog.
type CatalogResponse struct {
	Items []catalog.Item `json:"items"`
}

// CatalogEndpoint handles GET /catalog.
type CatalogEndpoint struct{}

func (e *CatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/catalog", e.handler
}

func (e *CatalogEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List the assessment catalog
//	@Tags		recommend
//	@Produce	json
//	@Success	200	{object}	CatalogResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/catalog [get]
func (e *CatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.CatalogFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not initialized")
		return
	}
	writeJSON(w, http.StatusOK, CatalogResponse{Items: store.Items()})
}

func (e *CatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the server's assessment catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp CatalogResponse
			if err := client.Get(cmd.Context(), "/catalog", &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			render.CatalogTable(os.Stdout, resp.Items)
			return nil
		},
	}
}
