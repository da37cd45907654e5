package draft

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dearpower/dearpower-go/internal/constants"
	"github.com/dearpower/dearpower-go/internal/domain"
	"github.com/dearpower/dearpower-go/internal/service/cache"
	"github.com/dearpower/dearpower-go/internal/util"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"go.uber.org/zap"
)

// ArticleCache is the subset of cache.CacheService the fetcher uses.
type ArticleCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// ArticleFetcher downloads a reference page and keeps its title and body text.
type ArticleFetcher struct {
	httpClient *http.Client
	cache      ArticleCache
	logger     *zap.Logger
}

var errNonPublicAddress = stderrors.New("reference resolves to a non-public address")

// NewArticleFetcher builds a fetcher; articleCache may be nil. A nil httpClient gets
// NewPublicHTTPClient.
func NewArticleFetcher(httpClient *http.Client, articleCache ArticleCache, logger *zap.Logger) *ArticleFetcher {
	if httpClient == nil {
		httpClient = NewPublicHTTPClient()
	}
	return &ArticleFetcher{
		httpClient: httpClient,
		cache:      articleCache,
		logger:     logger,
	}
}

func (f *ArticleFetcher) Fetch(ctx context.Context, rawURL string) (*domain.Article, error) {
	target, err := parseArticleURL(rawURL)
	if err != nil {
		return nil, err
	}

	key := cache.Key("article", target)
	if f.cache != nil {
		var cached domain.Article
		if found, err := f.cache.Get(ctx, key, &cached); err == nil && found {
			f.logger.Debug("Article cache hit", zap.String("url", target))
			return &cached, nil
		}
	}

	article, err := f.download(ctx, target)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, article, constants.ArticleConfig.CacheTTL); err != nil {
			f.logger.Debug("Article not cached", zap.Error(err))
		}
	}

	return article, nil
}

func (f *ArticleFetcher) download(ctx context.Context, target string) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ArticleConfig.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.NewAPIError("failed to create request", 0, map[string]any{"url": target}).WithCause(err)
	}
	req.Header.Set("User-Agent", constants.APIConfig.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if stderrors.Is(err, errNonPublicAddress) {
		f.logger.Warn("Reference to non-public address refused", zap.String("host", req.URL.Hostname()))
		return nil, errors.NewValidationError("reference must point to a public web page", "reference", req.URL.Hostname())
	}
	if err != nil {
		return nil, errors.NewAPIError("article request failed", 0, map[string]any{"url": target}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewAPIError(fmt.Sprintf("article fetch failed: %s", resp.Status), resp.StatusCode,
			map[string]any{"url": target})
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ := mime.ParseMediaType(ct)
		if mediaType != "text/html" && mediaType != "application/xhtml+xml" {
			return nil, errors.NewValidationError("reference is not an HTML page", "reference", mediaType)
		}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, constants.ArticleConfig.MaxBodyBytes))
	if err != nil {
		return nil, errors.NewAPIError("HTML parse failed", resp.StatusCode, map[string]any{"url": target}).WithCause(err)
	}

	article := extractArticle(doc)
	article.URL = target

	f.logger.Info("Reference article fetched",
		zap.String("url", target),
		zap.Int("title_length", len(article.Title)),
		zap.Int("text_length", len(article.Text)),
	)

	return article, nil
}

// NewPublicHTTPClient returns a client that only connects to public unicast addresses.
// The address is checked after DNS resolution on every dial, redirects included.
func NewPublicHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: constants.ArticleConfig.FetchTimeout,
		Control: rejectNonPublic,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{
		Timeout:   constants.ArticleConfig.FetchTimeout,
		Transport: transport,
	}
}

func rejectNonPublic(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil || !isPublicAddr(addr) {
		return errNonPublicAddress
	}
	return nil
}

var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

func isPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch {
	case addr.IsLoopback(), addr.IsPrivate(), addr.IsUnspecified(),
		addr.IsLinkLocalUnicast(), addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(), addr.IsMulticast():
		return false
	case addr.Is4() && sharedAddressSpace.Contains(addr):
		return false
	}
	return addr.IsGlobalUnicast()
}

func parseArticleURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", errors.NewValidationError("reference must be an http(s) URL", "reference", raw)
	}
	u.Fragment = ""
	return u.String(), nil
}

// extractArticle picks the page title and the paragraphs of the main content area.
func extractArticle(doc *goquery.Document) *domain.Article {
	doc.Find("script, style, noscript, nav, header, footer, aside, form, figure").Remove()

	title := util.FirstNonEmpty(
		doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	)

	scope := doc.Selection
	for _, sel := range []string{"article", "main", "[role=main]"} {
		if candidate := doc.Find(sel).First(); candidate.Find("p").Length() > 0 {
			scope = candidate
			break
		}
	}

	var paragraphs []string
	scope.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := util.CollapseSpaces(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		if desc := doc.Find(`meta[name="description"]`).AttrOr("content", ""); desc != "" {
			paragraphs = append(paragraphs, util.CollapseSpaces(desc))
		}
	}

	return &domain.Article{
		Title: util.CollapseSpaces(title),
		Text:  util.TruncateString(strings.Join(paragraphs, "\n\n"), constants.ArticleConfig.MaxTextRunes),
	}
}
