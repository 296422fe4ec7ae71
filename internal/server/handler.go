package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mbaadvisor/internal/ai"
	"mbaadvisor/internal/chat"
	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/schools"
	"mbaadvisor/internal/types"
)

const tracerName = "mbaadvisor.api"

func (s *Server) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	return s.services.Observability.Tracer(tracerName).Start(r.Context(), name)
}

// failRequest records err on the span and writes the matching error response
func (s *Server) failRequest(w http.ResponseWriter, span trace.Span, title string, err error) {
	span.RecordError(err)
	if appErr, ok := errors.AsAppError(err); ok {
		span.SetAttributes(attribute.String("error.type", string(appErr.Type)))
		if appErr.Type != errors.ErrorTypeValidation && appErr.Type != errors.ErrorTypeNotFound {
			s.Logger.LogError(err, title)
		}
	} else {
		span.SetAttributes(attribute.String("error.type", "validation"))
	}
	writeAppError(w, title, err)
}

func (s *Server) profileAnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.profile.analyze")
	defer span.End()

	raw, err := readJSONBody(r)
	if err != nil {
		s.failRequest(w, span, "Invalid request body", err)
		return
	}

	p, err := profile.DecodeJSON(raw, true)
	if err != nil {
		s.failRequest(w, span, "Invalid profile", err)
		return
	}

	report := profile.Analyze(p)
	s.services.Observability.GetMetrics().RecordProfileAnalysis(ctx, report.Scores.Overall, report.OverallLevel.Label)

	span.SetAttributes(
		attribute.Int("profile.overall", report.Scores.Overall),
		attribute.String("profile.level", report.OverallLevel.Label),
	)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) profileUpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.profile.update")
	defer span.End()

	var req ProfileUpdateRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.failRequest(w, span, "Invalid request body", err)
		return
	}

	base := profile.DefaultProfile()
	if len(req.Profile) > 0 && string(req.Profile) != "null" {
		decoded, err := profile.DecodeJSON(req.Profile, true)
		if err != nil {
			s.failRequest(w, span, "Invalid profile", err)
			return
		}
		base = decoded
	}

	updates, err := profile.DecodeUpdates(req.Updates)
	if err != nil {
		s.failRequest(w, span, "Invalid update", err)
		return
	}

	updated := base.Apply(updates...)
	report := profile.Analyze(updated)
	s.services.Observability.GetMetrics().RecordProfileAnalysis(ctx, report.Scores.Overall, report.OverallLevel.Label)

	span.SetAttributes(
		attribute.Int("profile.updates", len(updates)),
		attribute.Int("profile.overall", report.Scores.Overall),
	)
	writeJSON(w, http.StatusOK, ProfileUpdateResponse{Profile: updated, Report: report})
}

func (s *Server) profileAdviceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.profile.advice")
	defer span.End()

	if s.services.AI == nil {
		s.failRequest(w, span, "AI service unavailable", errAIDisabled())
		return
	}

	raw, err := readJSONBody(r)
	if err != nil {
		s.failRequest(w, span, "Invalid request body", err)
		return
	}
	p, err := profile.DecodeJSON(raw, true)
	if err != nil {
		s.failRequest(w, span, "Invalid profile", err)
		return
	}

	report := profile.Analyze(p)
	metrics := s.services.Observability.GetMetrics()
	metrics.RecordProfileAnalysis(ctx, report.Scores.Overall, report.OverallLevel.Label)

	var advice types.ProfileAdvice
	err = metrics.TrackAIOperationWithTokens(ctx, config.OperationAdvice, func(ctx context.Context) (*ai.TokenUsage, error) {
		out, usage, aiErr := s.services.AI.Provider.AdviseProfile(ctx, report)
		advice = out
		return usage, aiErr
	})
	if err != nil {
		s.failRequest(w, span, "Failed to generate profile advice", err)
		return
	}

	span.SetAttributes(attribute.Int("advice.priorities", len(advice.Priorities)))
	writeJSON(w, http.StatusOK, ProfileAdviceResponse{Report: report, Advice: advice})
}

func (s *Server) schoolSearchHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.schools.search")
	defer span.End()

	filter, exclude, err := parseSchoolQuery(r)
	if err != nil {
		s.failRequest(w, span, "Invalid filter", err)
		return
	}

	results, err := s.services.Schools.Catalog().Search(filter, exclude)
	if err != nil {
		s.failRequest(w, span, "Invalid filter", err)
		return
	}

	s.services.Observability.GetMetrics().RecordSchoolSearch(ctx, len(results))
	span.SetAttributes(attribute.Int("schools.results", len(results)))
	writeJSON(w, http.StatusOK, map[string]any{
		"schools": results,
		"count":   len(results),
	})
}

// parseSchoolQuery reads filter and exclude parameters from the query string
func parseSchoolQuery(r *http.Request) (schools.Filter, []int, error) {
	q := r.URL.Query()
	filter := schools.Filter{
		Name:            q.Get("q"),
		Location:        q.Get("location"),
		ProgramLength:   q.Get("length"),
		Specializations: q["specialization"],
	}

	var err error
	if filter.RankingMax, err = queryInt(q.Get("rankingMax"), "rankingMax"); err != nil {
		return filter, nil, err
	}
	if filter.TuitionMax, err = queryInt(q.Get("tuitionMax"), "tuitionMax"); err != nil {
		return filter, nil, err
	}

	var exclude []int
	for _, v := range q["exclude"] {
		for part := range strings.SplitSeq(v, ",") {
			id, err := queryInt(strings.TrimSpace(part), "exclude")
			if err != nil {
				return filter, nil, err
			}
			if id > 0 {
				exclude = append(exclude, id)
			}
		}
	}

	return filter.WithDefaults(), exclude, nil
}

func queryInt(value, name string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.NewValidationError(errors.ErrCodeInvalidFilter,
			fmt.Sprintf("%s must be an integer", name), err).WithContext("value", value)
	}
	return n, nil
}

func (s *Server) schoolCompareHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.schools.compare")
	defer span.End()

	var req CompareRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.failRequest(w, span, "Invalid request body", err)
		return
	}

	catalog := s.services.Schools.Catalog()
	sel, err := schools.NewSelection(catalog, req.IDs...)
	if err != nil {
		s.failRequest(w, span, "Invalid selection", err)
		return
	}

	comparison, err := schools.Compare(catalog, sel)
	if err != nil {
		s.failRequest(w, span, "Failed to compare schools", err)
		return
	}

	s.services.Observability.GetMetrics().RecordSchoolComparison(ctx, sel.Len())
	span.SetAttributes(attribute.Int("schools.compared", sel.Len()))
	writeJSON(w, http.StatusOK, comparison)
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.chat")
	defer span.End()

	if s.services.Advisor == nil {
		s.failRequest(w, span, "Chat unavailable", errAIDisabled())
		return
	}

	var req ChatRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.failRequest(w, span, "Invalid request body", err)
		return
	}

	reply, err := s.services.Advisor.Reply(ctx, req.SessionID, req.Message)
	if err != nil {
		s.failRequest(w, span, "Failed to reply", err)
		return
	}

	span.SetAttributes(
		attribute.String("chat.intention", string(reply.Intention)),
		attribute.Bool("chat.word_limit_reached", reply.WordLimitReached),
		attribute.Int("chat.citations", len(reply.Message.Citations)),
	)
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) chatClearHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.chat.clear")
	defer span.End()

	if s.services.Advisor == nil {
		s.failRequest(w, span, "Chat unavailable", errAIDisabled())
		return
	}

	if err := s.services.Advisor.Clear(ctx, r.PathValue("id")); err != nil {
		s.failRequest(w, span, "Failed to clear session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uiConfigHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, chat.UIConfig())
}

func errAIDisabled() error {
	return errors.NewAIError(errors.ErrCodeAIUnavailable, "no AI provider is configured", nil)
}
