package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

func TestRecordService_GetRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ingestAll(t, env, map[string]string{"manual-mbft.txt": workedExample})

	rec, err := env.lookup.GetRecord(ctx, " 596-70 ")
	require.NoError(t, err)
	assert.Equal(t, "596-70", rec.Code)
	assert.Equal(t, "gravíssima", rec.Severity)
	assert.Equal(t, SourceID("manual-mbft.txt"), rec.SourceID)

	_, err = env.lookup.GetRecord(ctx, "999-99")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.lookup.GetRecord(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordService_ListRecords(t *testing.T) {
	env := newTestEnv(t)
	ingestAll(t, env, map[string]string{"manual-mbft.txt": workedExample})

	recs, err := env.lookup.ListRecords(context.Background())

	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "596-70", recs[0].Code)
	assert.Equal(t, "601-80", recs[1].Code)
}

func TestRecordService_FindRecord_ByCode(t *testing.T) {
	env := newTestEnv(t)
	ingestAll(t, env, map[string]string{"manual-mbft.txt": workedExample})

	match, err := env.lookup.FindRecord(context.Background(), "o que diz a ficha 601-80?")

	require.NoError(t, err)
	assert.Equal(t, domain.MatchByCode, match.Method)
	assert.Equal(t, 1.0, match.Confidence)
	assert.Equal(t, "601-80", match.Record.Code)
}

func TestRecordService_FindRecord_ByCodeFromPatternSet(t *testing.T) {
	ctx := context.Background()
	settings := domain.DefaultSettings()
	settings.Segmenter.PatternSet = "mbft-index"
	env := newTestEnvWith(t, settings)
	ingestAll(t, env, map[string]string{"indice-codigos.txt": "5010-10: Dirigir veículo sem possuir habilitação\n" +
		"5020-20: Dirigir veículo com habilitação cassada\n"})

	rec, err := env.lookup.GetRecord(ctx, "5010-10")
	require.NoError(t, err)
	assert.Equal(t, "5010-10", rec.Code)

	match, err := env.lookup.FindRecord(ctx, "ficha 5010-10")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchByCode, match.Method)
	require.NotNil(t, match.Record)
	assert.Equal(t, "5010-10", match.Record.Code)
}

func TestRecordService_CodeIn(t *testing.T) {
	svc := NewRecordService(nil, nil, nil, nil, 0.25, 3)
	assert.Equal(t, "596-70", svc.codeIn("ficha 596-70?"))
	assert.Empty(t, svc.codeIn("5010-10"))

	svc.SetCodePattern(nil)
	assert.Equal(t, "596-70", svc.codeIn("596-70"), "nil keeps the default")

	svc.SetCodePattern(regexp.MustCompile(`\b(\d{3,}-\d{2})\b`))
	assert.Equal(t, "5010-10", svc.codeIn("a 5010-10 b"))
}

func TestRecordService_FindRecord_BySimilarity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ingestAll(t, env, map[string]string{"manual-mbft.txt": workedExample})

	match, err := env.lookup.FindRecord(ctx, "Estacionar em local proibido")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchBySimilarity, match.Method)
	assert.Equal(t, "601-80", match.Record.Code)
	assert.GreaterOrEqual(t, match.Confidence, 0.25)

	// An unknown code falls through to similarity.
	match, err = env.lookup.FindRecord(ctx, "999-99 estacionar em local proibido")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchBySimilarity, match.Method)
	assert.Equal(t, "601-80", match.Record.Code)
}

func TestRecordService_FindRecord_BySentence(t *testing.T) {
	env := newTestEnv(t)
	ingestAll(t, env, map[string]string{
		"regras.txt": "O capacete é obrigatório. A viseira deve estar abaixada durante a condução.",
	})

	match, err := env.lookup.FindRecord(context.Background(), "viseira abaixada")

	require.NoError(t, err)
	assert.Equal(t, domain.MatchBySentence, match.Method)
	assert.Nil(t, match.Record)
	assert.Contains(t, match.Sentence, "viseira")
	assert.NotContains(t, match.Sentence, "capacete")
	assert.Equal(t, "regras.txt", match.SourceOrigin)
	assert.Equal(t, 1.0, match.Confidence)
}

func TestRecordService_FindRecord_Insufficient(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.lookup.FindRecord(ctx, "qualquer coisa")
	assert.ErrorIs(t, err, domain.ErrInsufficientEvidence)

	_, err = env.lookup.FindRecord(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTermOverlap(t *testing.T) {
	terms := []string{"viseira", "abaixada"}

	assert.Equal(t, 1.0, termOverlap("A viseira deve estar abaixada", terms, 3))
	assert.Equal(t, 0.5, termOverlap("A viseira está limpa", terms, 3))
	assert.Zero(t, termOverlap("Nada aqui", terms, 3))
}

func TestRunePrefix(t *testing.T) {
	assert.Equal(t, "açã", runePrefix("ação", 3))
	assert.Equal(t, "ação", runePrefix("ação", 10))
	assert.Empty(t, runePrefix("ação", 0))
}
