package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"capsearch/internal/fetch"
	"capsearch/internal/innertube"
	"capsearch/internal/logger"
	"capsearch/internal/models"
	"capsearch/internal/pipeline"
	"capsearch/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

type fakeStrategy struct {
	name    string
	catalog *source.Catalog
	err     error
	calls   int
	lastReq source.Request
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Discover(ctx context.Context, req source.Request) (*source.Catalog, error) {
	f.calls++
	f.lastReq = req
	return f.catalog, f.err
}

type fakePages struct {
	page *innertube.PageContext
	err  error
}

func (f *fakePages) FetchPageContext(ctx context.Context, videoID string) (*innertube.PageContext, error) {
	return f.page, f.err
}

func cuesCatalog(lang string) *source.Catalog {
	return &source.Catalog{
		Cues:     []models.Cue{{Start: 0, Duration: 2, Text: "pre-parsed"}},
		Language: lang,
	}
}

func newTestOrchestrator(strategies []source.Strategy, community source.Strategy) *pipeline.Orchestrator {
	log := testLogger()
	fetcher := fetch.NewFetcher(http.DefaultClient, log, "")
	return pipeline.New(log, &fakePages{page: &innertube.PageContext{}}, fetcher, strategies, community, "en")
}

func TestLoadRequiresVideoID(t *testing.T) {
	o := newTestOrchestrator(nil, nil)

	_, err := o.Load(context.Background(), pipeline.Request{})
	assert.ErrorIs(t, err, models.ErrNoVideoID)

	var le *pipeline.LoadError
	assert.ErrorAs(t, err, &le)
	assert.Equal(t, pipeline.PhaseFailed, o.Phase())
}

func TestLoadShortCircuitsOnFirstSuccess(t *testing.T) {
	first := &fakeStrategy{name: "first", catalog: cuesCatalog("en")}
	second := &fakeStrategy{name: "second", catalog: cuesCatalog("en")}
	o := newTestOrchestrator([]source.Strategy{first, second}, nil)

	result, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123"})
	require.NoError(t, err)

	assert.Equal(t, "first", result.Source)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
	assert.Equal(t, pipeline.PhaseReady, o.Phase())
}

func TestLoadFallsThroughFailedStrategies(t *testing.T) {
	first := &fakeStrategy{name: "first", err: errors.New("boom")}
	second := &fakeStrategy{name: "second"} // nothing to offer
	third := &fakeStrategy{name: "third", catalog: cuesCatalog("en")}
	o := newTestOrchestrator([]source.Strategy{first, second, third}, nil)

	result, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123"})
	require.NoError(t, err)
	assert.Equal(t, "third", result.Source)
}

func TestLoadFullTrackPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<transcript><text start="1" dur="2">hello from xml</text></transcript>`)
	}))
	defer server.Close()

	strategy := &fakeStrategy{name: "api", catalog: &source.Catalog{
		Tracks: []models.Track{{LanguageCode: "en", Kind: models.KindStandard, SourceLocator: server.URL}},
		Format: "legacy-xml",
	}}

	log := testLogger()
	fetcher := fetch.NewFetcher(server.Client(), log, "")
	o := pipeline.New(log, &fakePages{page: &innertube.PageContext{}}, fetcher, []source.Strategy{strategy}, nil, "en")

	result, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123", Language: "en"})
	require.NoError(t, err)

	require.Len(t, result.Cues, 1)
	assert.Equal(t, "hello from xml", result.Cues[0].Text)
	assert.Equal(t, "en", result.SelectedLanguage)
	assert.Len(t, result.TracksAvailable, 1)
	assert.Equal(t, "api", result.Source)
}

func TestLoadFailureNoTracks(t *testing.T) {
	o := newTestOrchestrator([]source.Strategy{&fakeStrategy{name: "empty"}}, nil)

	_, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123"})
	assert.ErrorIs(t, err, models.ErrNoTracksFound)
	assert.Equal(t, pipeline.PhaseFailed, o.Phase())
}

func TestLoadFailureFetchFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	strategy := &fakeStrategy{name: "api", catalog: &source.Catalog{
		Tracks: []models.Track{{LanguageCode: "en", SourceLocator: server.URL}},
		Format: "legacy-xml",
	}}

	log := testLogger()
	o := pipeline.New(log, &fakePages{}, fetch.NewFetcher(server.Client(), log, ""), []source.Strategy{strategy}, nil, "en")

	_, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123"})
	assert.ErrorIs(t, err, models.ErrFetchFailed)
}

func TestLoadFailureUnparsablePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "certainly not xml")
	}))
	defer server.Close()

	strategy := &fakeStrategy{name: "api", catalog: &source.Catalog{
		Tracks: []models.Track{{LanguageCode: "en", SourceLocator: server.URL}},
		Format: "legacy-xml",
	}}

	log := testLogger()
	o := pipeline.New(log, &fakePages{}, fetch.NewFetcher(server.Client(), log, ""), []source.Strategy{strategy}, nil, "en")

	_, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123"})
	assert.ErrorIs(t, err, models.ErrUnparsableFormat)
}

func TestLoadFailureEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<transcript><text start="1" dur="2">   </text></transcript>`)
	}))
	defer server.Close()

	strategy := &fakeStrategy{name: "api", catalog: &source.Catalog{
		Tracks: []models.Track{{LanguageCode: "en", SourceLocator: server.URL}},
		Format: "legacy-xml",
	}}

	log := testLogger()
	o := pipeline.New(log, &fakePages{}, fetch.NewFetcher(server.Client(), log, ""), []source.Strategy{strategy}, nil, "en")

	_, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123"})
	assert.ErrorIs(t, err, models.ErrEmptyResult)
}

func TestCommunityFallbackWhenChainEmpty(t *testing.T) {
	community := &fakeStrategy{name: "community-repo", catalog: cuesCatalog(models.LangCommunity)}
	o := newTestOrchestrator([]source.Strategy{&fakeStrategy{name: "empty"}}, community)

	result, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123"})
	require.NoError(t, err)
	assert.Equal(t, "community-repo", result.Source)
	assert.Equal(t, models.LangCommunity, result.SelectedLanguage)
}

func TestCommunityUpgradesAutoGeneratedDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<transcript><text start="1" dur="2">machine transcript</text></transcript>`)
	}))
	defer server.Close()

	strategy := &fakeStrategy{name: "api", catalog: &source.Catalog{
		Tracks: []models.Track{{LanguageCode: "en", Kind: models.KindAutoGenerated, SourceLocator: server.URL}},
		Format: "legacy-xml",
	}}
	community := &fakeStrategy{name: "community-repo", catalog: cuesCatalog(models.LangCommunity)}

	log := testLogger()
	o := pipeline.New(log, &fakePages{}, fetch.NewFetcher(server.Client(), log, ""), []source.Strategy{strategy}, community, "en")

	// Default-language request with only an auto-generated track: authored
	// community subtitles take precedence.
	result, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123"})
	require.NoError(t, err)
	assert.Equal(t, 1, community.calls)
	assert.Equal(t, "community-repo", result.Source)

	// An explicit non-default language keeps the chain result.
	community.calls = 0
	result, err = o.Load(context.Background(), pipeline.Request{VideoID: "vid123", Language: "fr"})
	require.NoError(t, err)
	assert.Equal(t, 0, community.calls)
	assert.Equal(t, "api", result.Source)
}

func TestCommunityNotConsultedForStandardTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<transcript><text start="1" dur="2">authored</text></transcript>`)
	}))
	defer server.Close()

	strategy := &fakeStrategy{name: "api", catalog: &source.Catalog{
		Tracks: []models.Track{{LanguageCode: "en", Kind: models.KindStandard, SourceLocator: server.URL}},
		Format: "legacy-xml",
	}}
	community := &fakeStrategy{name: "community-repo", catalog: cuesCatalog(models.LangCommunity)}

	log := testLogger()
	o := pipeline.New(log, &fakePages{}, fetch.NewFetcher(server.Client(), log, ""), []source.Strategy{strategy}, community, "en")

	result, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123"})
	require.NoError(t, err)
	assert.Equal(t, 0, community.calls)
	assert.Equal(t, "api", result.Source)
}

func TestExplicitCommunityRequestSkipsChain(t *testing.T) {
	chain := &fakeStrategy{name: "api", catalog: cuesCatalog("en")}
	community := &fakeStrategy{name: "community-repo", catalog: cuesCatalog(models.LangCommunity)}
	o := newTestOrchestrator([]source.Strategy{chain}, community)

	result, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123", Language: models.LangCommunity})
	require.NoError(t, err)
	assert.Equal(t, 0, chain.calls)
	assert.Equal(t, "community-repo", result.Source)
}

func TestExplicitCommunityRequestFailure(t *testing.T) {
	community := &fakeStrategy{name: "community-repo"}
	o := newTestOrchestrator(nil, community)

	_, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123", Language: models.LangCommunity})
	assert.ErrorIs(t, err, models.ErrNoTracksFound)
}

func TestLoadImportedFile(t *testing.T) {
	o := newTestOrchestrator(nil, nil)

	file := &source.ImportedFile{
		Content:   "1\n00:00:01,000 --> 00:00:02,000\nimported\n",
		Extension: "srt",
	}
	result, err := o.Load(context.Background(), pipeline.Request{
		VideoID:  "vid123",
		Language: models.LangCustomFile,
		File:     file,
	})
	require.NoError(t, err)
	assert.Equal(t, models.LangCustomFile, result.SelectedLanguage)
	assert.Equal(t, "file-import", result.Source)
	require.Len(t, result.Cues, 1)
	assert.Equal(t, "imported", result.Cues[0].Text)
}

func TestLoadImportedFileErrors(t *testing.T) {
	o := newTestOrchestrator(nil, nil)

	_, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123", Language: models.LangCustomFile})
	assert.ErrorIs(t, err, models.ErrEmptyResult)

	_, err = o.Load(context.Background(), pipeline.Request{
		VideoID:  "vid123",
		Language: models.LangCustomFile,
		File:     &source.ImportedFile{Content: "x", Extension: "doc"},
	})
	assert.ErrorIs(t, err, models.ErrUnsupportedExtension)

	_, err = o.Load(context.Background(), pipeline.Request{
		VideoID:  "vid123",
		Language: models.LangCustomFile,
		File:     &source.ImportedFile{Content: "not a subtitle", Extension: "srt"},
	})
	assert.ErrorIs(t, err, models.ErrUnparsableFormat)
}

func TestLoadSurvivesPageFetchFailure(t *testing.T) {
	strategy := &fakeStrategy{name: "api", catalog: cuesCatalog("en")}
	log := testLogger()
	pages := &fakePages{err: errors.New("watch page unreachable")}
	o := pipeline.New(log, pages, fetch.NewFetcher(http.DefaultClient, log, ""), []source.Strategy{strategy}, nil, "en")

	result, err := o.Load(context.Background(), pipeline.Request{VideoID: "vid123"})
	require.NoError(t, err)
	assert.Equal(t, "api", result.Source)
	// The strategy saw a nil page and had to cope.
	assert.Nil(t, strategy.lastReq.Page)
}
