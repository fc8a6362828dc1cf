package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/okian/aithena/internal/adapters/llm"
	"github.com/okian/aithena/internal/domain/prompt"
	"github.com/okian/aithena/internal/domain/structured"
	"github.com/okian/aithena/pkg/metrics"
)

// NoCoursesNote accompanies an empty recommendation list.
const NoCoursesNote = "No courses found in profile"

type recommendReply struct {
	Courses *[]CourseRecommendation `json:"courses"`
}

// Recommend asks the model for per-course study suggestions. There is no
// deterministic fallback: without an API key it returns
// llm.ErrNotConfigured, and when every model fails the last
// *llm.UpstreamError is returned. A reply that does not fit the schema is
// passed through as raw text.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (RecommendResult, error) {
	start := time.Now()
	if !s.model.Configured() {
		s.finish(prompt.Recommend, metrics.PathError, start)
		return RecommendResult{}, llm.ErrNotConfigured
	}

	courses := make([]string, 0, len(req.Profile.Courses.Items))
	for _, c := range req.Profile.Courses.Items {
		if c = strings.TrimSpace(c); c != "" {
			courses = append(courses, c)
		}
	}
	if len(courses) == 0 {
		s.finish(prompt.Recommend, metrics.PathFallback, start)
		return RecommendResult{kind: recommendEmpty, Notes: NoCoursesNote}, nil
	}

	p := req.Profile
	resp, err := s.generate(ctx, prompt.Recommend, req.Model, s.cfg.LongModelTimeout(), prompt.RecommendInput{
		Name:         p.Name,
		Major:        p.Major,
		Availability: p.Availability,
		Bio:          p.Bio,
		Courses:      courses,
	})
	if err != nil {
		s.finish(prompt.Recommend, metrics.PathError, start)
		metrics.RecordErrorByComponent("model", string(prompt.Recommend))
		return RecommendResult{}, err
	}

	reply, err := structured.Decode[recommendReply](resp.Text, prompt.Recommend.Shape())
	if err == nil && reply.Courses == nil {
		err = errors.Join(structured.ErrShapeMismatch, errors.New("missing courses list"))
	}
	if err != nil {
		s.noteStructured(ctx, prompt.Recommend, resp.Model, err)
		s.finish(prompt.Recommend, metrics.PathRaw, start)
		return RecommendResult{kind: recommendRaw, Raw: resp.Text, ModelUsed: resp.Model}, nil
	}

	s.finish(prompt.Recommend, metrics.PathModel, start)
	return RecommendResult{kind: recommendStructured, Courses: *reply.Courses, ModelUsed: resp.Model}, nil
}
