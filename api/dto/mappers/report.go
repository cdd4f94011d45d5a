// ABOUTME: Mappers for converting between domain models and API DTOs
// ABOUTME: Provides clean separation between business logic and API layer

package mappers

import (
	"serp-cluster-api/api/dto/responses"
	"serp-cluster-api/core/domain"
)

// ToReportResponse converts a domain Report to a ReportResponse DTO
func ToReportResponse(rep *domain.Report) *responses.ReportResponse {
	if rep == nil {
		return nil
	}

	response := &responses.ReportResponse{
		RunID:       rep.RunID,
		GeneratedAt: rep.GeneratedAt,
		Domain:      rep.Domain,
		Threshold:   rep.Threshold,
		Clusters:    make([]responses.ClusterResponse, 0, len(rep.Clusters)),
		Findings:    make([]responses.FindingResponse, 0, len(rep.Findings)),
		Rows:        make([]responses.RowResponse, 0, len(rep.Rows)),
	}

	for _, c := range rep.Clusters {
		response.Clusters = append(response.Clusters, ToClusterResponse(c))
	}
	for _, f := range rep.Findings {
		response.Findings = append(response.Findings, ToFindingResponse(f))
	}
	for _, row := range rep.Rows {
		response.Rows = append(response.Rows, ToRowResponse(row))
	}

	return response
}

// ToClusterResponse converts a domain Cluster to a ClusterResponse DTO
func ToClusterResponse(c domain.Cluster) responses.ClusterResponse {
	keywords := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		keywords = append(keywords, m.Text)
	}

	return responses.ClusterResponse{
		ID:       c.ID,
		Keywords: keywords,
		Label:    c.Label,
		Intent:   string(c.Intent),
	}
}

// ToRowResponse converts a domain ReportRow to a RowResponse DTO
func ToRowResponse(row domain.ReportRow) responses.RowResponse {
	return responses.RowResponse{
		Keyword:      row.Keyword.Text,
		LocationCode: row.Keyword.Locale.LocationCode,
		LanguageCode: row.Keyword.Locale.LanguageCode,
		ClusterID:    row.ClusterID,
		ClusterLabel: row.ClusterLabel,
		Intent:       string(row.Intent),
		ClusterSize:  row.ClusterSize,
		Cannibalized: row.Cannibalized,
		PrimaryURL:   row.PrimaryURL,
		FetchStatus:  string(row.Status),
	}
}

// ToFindingResponse converts a domain CannibalizationFinding to a FindingResponse DTO
func ToFindingResponse(f domain.CannibalizationFinding) responses.FindingResponse {
	competing := make([]responses.CompetingURLResponse, 0, len(f.Competing))
	for _, c := range f.Competing {
		competing = append(competing, responses.CompetingURLResponse{
			RankedURLResponse: toRankedURLResponse(c.RankedURL),
			Severity:          string(c.Severity),
			Action:            string(c.Action),
		})
	}

	return responses.FindingResponse{
		ClusterID:  f.ClusterID,
		Domain:     f.Domain,
		PrimaryURL: toRankedURLResponse(f.PrimaryURL),
		Competing:  competing,
	}
}

func toRankedURLResponse(r domain.RankedURL) responses.RankedURLResponse {
	occurrences := make([]responses.OccurrenceResponse, 0, len(r.Occurrences))
	for _, o := range r.Occurrences {
		occurrences = append(occurrences, responses.OccurrenceResponse{
			Keyword: o.Keyword.Text,
			Rank:    o.Rank,
		})
	}

	return responses.RankedURLResponse{
		URL:         r.URL,
		AvgRank:     r.AvgRank,
		Occurrences: occurrences,
	}
}
