package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/cardpoint"
	main "github.com/fwojciec/cardpoint/cmd/cardpoint"
	"github.com/fwojciec/cardpoint/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	name    string
	getErr  error
	reply   string
	genErr  error
	pinged []string
}

func (f *fakeModels) Get(_ context.Context, _ string, _ *genai.GetModelConfig) (*genai.Model, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &genai.Model{Name: f.name}, nil
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.pinged = append(f.pinged, model)
	if f.genErr != nil {
		return nil, f.genErr
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.reply, genai.RoleModel),
		}},
	}, nil
}

func TestCheckModelCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("resolves alias and pings", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{name: "models/gemini-3-flash", reply: "pong\n"}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Config:    &main.Config{},
			Models:    models,
			Generator: models,
		}

		require.NoError(t, (&main.CheckModelCmd{}).Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "configured: (auto)")
		assert.Contains(t, out, "resolved:   "+gemini.LatestAlias)
		assert.Contains(t, out, "reply:      pong")
		assert.Equal(t, []string{gemini.LatestAlias}, models.pinged)
	})

	t.Run("configured model wins", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{getErr: errors.New("unused")}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Config:    &main.Config{ModelID: "gemini-custom"},
			Models:    models,
			Generator: models,
		}

		require.NoError(t, (&main.CheckModelCmd{NoPing: true}).Run(deps))

		assert.Contains(t, stdout.String(), "resolved:   gemini-custom")
		assert.Empty(t, models.pinged)
	})

	t.Run("reports ping failure", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{getErr: errors.New("lookup failed"), genErr: errors.New("boom")}
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    stderr,
			Config:    &main.Config{},
			Models:    models,
			Generator: models,
		}

		err := (&main.CheckModelCmd{}).Run(deps)

		assert.Equal(t, cardpoint.EEXTRACT, cardpoint.ErrorCode(err))
		assert.Contains(t, stdout.String(), "resolved:   "+gemini.FallbackModel)
		assert.Contains(t, stderr.String(), "error:")
	})
}
