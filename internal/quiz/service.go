package quiz

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Membership gates quiz generation on class membership.
type Membership interface {
	IsMember(ctx context.Context, classID, userID string) (bool, error)
}

// CorpusSource produces the generation context for a class.
type CorpusSource interface {
	Build(ctx context.Context, classID string) (string, error)
}

// Generator is the opaque text-completion backend. Its output is returned
// to callers verbatim; nothing here parses or validates it.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

const (
	preamble = "Using the following course materials, provide practice questions for students that want to practice for the exam. " +
		"Return your answer as plain text — no JSON parsing required."
	instruction = "Generate the quiz question as plain text."
)

type Service struct {
	members Membership
	corpus  CorpusSource
	gen     Generator
}

func NewService(members Membership, corpus CorpusSource, gen Generator) *Service {
	return &Service{members: members, corpus: corpus, gen: gen}
}

// Generate runs one quiz request: authenticate, validate, authorize, build
// the corpus, call the backend once. No retries; failures surface to the
// caller immediately.
//
// The topic records the student's intent but is not folded into the prompt;
// generation draws on the full corpus.
func (s *Service) Generate(ctx context.Context, classID, userID, topic string) (string, error) {
	if userID == "" {
		return "", ErrUnauthenticated
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrEmptyTopic
	}
	ok, err := s.members.IsMember(ctx, classID, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrForbidden
	}
	corpus, err := s.corpus.Build(ctx, classID)
	if err != nil {
		return "", err
	}
	log.Printf("quiz: class=%s user=%s topic=%q corpus=%dB", classID, userID, topic, len(corpus))
	out, err := s.gen.Generate(ctx, preamble+"\n\n"+corpus, instruction)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return out, nil
}
