package cannibal

import (
	"testing"

	"serp-cluster-api/core/domain"
	"serp-cluster-api/core/interfaces"
)

func kw(text string) domain.Keyword {
	return domain.Keyword{Text: text, Locale: domain.DefaultLocale}
}

func serpOf(urls ...string) domain.SerpResult {
	return domain.SerpResult{URLs: urls}
}

func clusterOf(texts ...string) domain.Cluster {
	members := make([]domain.Keyword, len(texts))
	for i, t := range texts {
		members[i] = kw(t)
	}
	return domain.NewCluster(members)
}

func TestDetect_TwoDistinctURLsProduceFinding(t *testing.T) {
	clusters := []domain.Cluster{clusterOf("kw1", "kw2")}
	results := map[domain.Keyword]domain.SerpResult{
		kw("kw1"): serpOf("https://example.com/a", "https://example.com/b", "https://other.com/x"),
		kw("kw2"): serpOf("https://example.com/a", "https://other.com/y"),
	}

	svc := NewService(interfaces.Dependencies{}, Options{})
	findings := svc.Detect(clusters, results, "example.com")

	if len(findings) != 1 {
		t.Fatalf("expected exactly one finding, got %d", len(findings))
	}

	f := findings[0]
	if f.Domain != "example.com" {
		t.Errorf("finding domain = %q", f.Domain)
	}
	// /a ranks for both keywords, so it is the primary.
	if f.PrimaryURL.URL != "https://example.com/a" {
		t.Errorf("primary = %q, want /a", f.PrimaryURL.URL)
	}
	if len(f.Competing) != 1 || f.Competing[0].URL != "https://example.com/b" {
		t.Fatalf("competing = %+v, want /b", f.Competing)
	}
	total := 1 + len(f.Competing)
	if total != 2 {
		t.Errorf("finding lists %d URLs, want 2", total)
	}
}

func TestDetect_SingleURLIsNotCannibalization(t *testing.T) {
	clusters := []domain.Cluster{clusterOf("kw1", "kw2")}
	results := map[domain.Keyword]domain.SerpResult{
		kw("kw1"): serpOf("https://example.com/a", "https://other.com/x"),
		kw("kw2"): serpOf("https://example.com/a", "https://other.com/y"),
	}

	svc := NewService(interfaces.Dependencies{}, Options{})
	findings := svc.Detect(clusters, results, "example.com")

	if len(findings) != 0 {
		t.Errorf("one page serving a cluster is expected behavior, got %d findings", len(findings))
	}
}

func TestDetect_SubdomainInsensitiveByDefault(t *testing.T) {
	clusters := []domain.Cluster{clusterOf("kw1")}
	results := map[domain.Keyword]domain.SerpResult{
		kw("kw1"): serpOf("https://www.example.com/a", "https://blog.example.com/b"),
	}

	svc := NewService(interfaces.Dependencies{}, Options{})
	findings := svc.Detect(clusters, results, "example.com")

	if len(findings) != 1 {
		t.Fatalf("www and subdomain hosts should match by default, got %d findings", len(findings))
	}

	exact := NewService(interfaces.Dependencies{}, Options{ExactHost: true})
	findings = exact.Detect(clusters, results, "example.com")
	// www. is stripped during normalization, so only /a matches exactly.
	if len(findings) != 0 {
		t.Errorf("exact host matching should exclude blog.example.com, got %d findings", len(findings))
	}
}

func TestDetect_SeverityAndAction(t *testing.T) {
	clusters := []domain.Cluster{clusterOf("kw1", "kw2", "kw3")}

	// /winner ranks for all three keywords. /high ranks for two (severity
	// high). /low ranks once at position 12 (action consolidate).
	deep := make([]string, 12)
	for i := range deep {
		deep[i] = "https://other.com/filler" + string(rune('a'+i))
	}
	deep[11] = "https://example.com/low"

	results := map[domain.Keyword]domain.SerpResult{
		kw("kw1"): serpOf("https://example.com/winner", "https://example.com/high"),
		kw("kw2"): serpOf("https://example.com/winner", "https://example.com/high"),
		kw("kw3"): serpOf(append([]string{"https://example.com/winner"}, deep...)...),
	}

	svc := NewService(interfaces.Dependencies{}, Options{})
	findings := svc.Detect(clusters, results, "example.com")

	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %d", len(findings))
	}
	f := findings[0]
	if f.PrimaryURL.URL != "https://example.com/winner" {
		t.Fatalf("primary = %q, want /winner", f.PrimaryURL.URL)
	}
	if len(f.Competing) != 2 {
		t.Fatalf("expected 2 competing URLs, got %+v", f.Competing)
	}

	byURL := make(map[string]domain.CompetingURL)
	for _, c := range f.Competing {
		byURL[c.URL] = c
	}

	high := byURL["https://example.com/high"]
	if high.Severity != domain.SeverityHigh {
		t.Errorf("/high severity = %q, want high", high.Severity)
	}
	if high.Action != domain.ActionReviewIntent {
		t.Errorf("/high action = %q, want review_intent", high.Action)
	}

	low := byURL["https://example.com/low"]
	if low.Severity != domain.SeverityMedium {
		t.Errorf("/low severity = %q, want medium", low.Severity)
	}
	if low.Action != domain.ActionConsolidate {
		t.Errorf("/low action = %q, want consolidate", low.Action)
	}
}

func TestDetect_IgnoresKeywordsOutsideCluster(t *testing.T) {
	// kw3 ranks a second domain URL but sits in another cluster.
	clusters := []domain.Cluster{clusterOf("kw1", "kw2"), clusterOf("kw3")}
	results := map[domain.Keyword]domain.SerpResult{
		kw("kw1"): serpOf("https://example.com/a"),
		kw("kw2"): serpOf("https://example.com/a"),
		kw("kw3"): serpOf("https://example.com/b"),
	}

	svc := NewService(interfaces.Dependencies{}, Options{})
	findings := svc.Detect(clusters, results, "example.com")

	if len(findings) != 0 {
		t.Errorf("URLs in different clusters must not combine, got %d findings", len(findings))
	}
}

func TestDetect_EmptyDomainDisablesDetection(t *testing.T) {
	clusters := []domain.Cluster{clusterOf("kw1")}
	results := map[domain.Keyword]domain.SerpResult{
		kw("kw1"): serpOf("https://example.com/a", "https://example.com/b"),
	}

	svc := NewService(interfaces.Dependencies{}, Options{})
	if findings := svc.Detect(clusters, results, ""); findings != nil {
		t.Errorf("empty domain should disable detection, got %v", findings)
	}
}

func TestDetect_FindingKeywords(t *testing.T) {
	clusters := []domain.Cluster{clusterOf("kw1", "kw2")}
	results := map[domain.Keyword]domain.SerpResult{
		kw("kw1"): serpOf("https://example.com/a", "https://example.com/b"),
		kw("kw2"): serpOf("https://example.com/a"),
	}

	svc := NewService(interfaces.Dependencies{}, Options{})
	findings := svc.Detect(clusters, results, "example.com")
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %d", len(findings))
	}

	keywords := findings[0].Keywords()
	if len(keywords) != 2 {
		t.Errorf("finding should cover both keywords, got %v", keywords)
	}
}
