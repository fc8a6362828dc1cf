package service

import (
	"context"
	"time"

	"github.com/okian/aithena/internal/domain/plan"
	"github.com/okian/aithena/internal/domain/profile"
	"github.com/okian/aithena/internal/domain/prompt"
	"github.com/okian/aithena/pkg/metrics"
)

// promptCourse names the course in the prompt when the request has none.
const promptCourse = "the selected course"

// StudyPlan proposes a session plan. A model plan is accepted once it has a
// blocks list; anything else yields the scaled template with a nil
// ModelUsed. StudyPlan never fails.
func (s *Service) StudyPlan(ctx context.Context, req PlanRequest) (PlanResult, error) {
	start := time.Now()
	duration := plan.ClampDuration(req.Duration)

	if s.model.Configured() {
		course := req.Course
		if course == "" {
			course = promptCourse
		}
		resp, err := s.generate(ctx, prompt.Plan, req.Model, s.cfg.ModelTimeout(), prompt.PlanInput{
			You:      participant(req.You),
			Partner:  participant(req.Partner),
			Course:   course,
			Duration: duration,
		})
		if err != nil {
			s.noteModelFailure(ctx, prompt.Plan, err)
		} else {
			p, err := plan.Validate(resp.Text, req.Course, duration)
			if err != nil {
				s.noteStructured(ctx, prompt.Plan, resp.Model, err)
			} else {
				s.finish(prompt.Plan, metrics.PathModel, start)
				model := resp.Model
				return PlanResult{Plan: p, ModelUsed: &model}, nil
			}
		}
	}

	s.finish(prompt.Plan, metrics.PathFallback, start)
	return PlanResult{Plan: plan.Fallback(req.Course, duration)}, nil
}

func participant(p *profile.Profile) *prompt.Participant {
	if p == nil {
		return nil
	}
	return &prompt.Participant{
		Name:         p.Name,
		Major:        p.Major,
		Availability: p.Availability,
		Bio:          p.Bio,
		Courses:      p.Courses.Items,
	}
}
