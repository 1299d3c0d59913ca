package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper maps application errors to a ProblemDetail; ok is false when it does not recognise err.
type ErrorMapper func(err error) (problem ProblemDetail, ok bool)

// Responder writes Problem Details responses, consulting its mappers before the defaults.
type Responder struct {
	// BaseURI is prepended to relative problem type URIs.
	BaseURI string
	mappers []ErrorMapper
}

func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{BaseURI: baseURI, mappers: mappers}
}

// Respond sends problem with the problem+json content type; Instance defaults to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError tries each mapper, then an embedded ProblemDetail, then falls back to 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}
