package service

import (
	"fmt"
	"strings"

	"feedhub/internal/model"
)

const contentPreviewLen = 200

// formatSubscriptionList renders subscriptions grouped by source type.
func formatSubscriptionList(subs []model.Subscription) string {
	if len(subs) == 0 {
		return "No subscriptions yet. Use subscribe <type> <identifier> to add one."
	}

	byType := map[model.SourceType][]model.Subscription{}
	for _, sub := range subs {
		byType[sub.SourceType] = append(byType[sub.SourceType], sub)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subscriptions (%d):\n", len(subs))
	for _, t := range model.SourceTypes {
		group := byType[t]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s]\n", strings.ToUpper(string(t)))
		for _, sub := range group {
			fmt.Fprintf(&b, "  %s (%s)\n", sub.Name, sub.Identifier)
		}
	}
	return b.String()
}

// formatCheckSummary renders one ingestion pass.
func formatCheckSummary(summary *model.CheckSummary) string {
	if summary.Checked == 0 {
		return "Feed Check Complete: no subscriptions to check."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Feed Check Complete: %d subscriptions checked, %d new items.\n",
		summary.Checked, summary.NewItems)
	for _, res := range summary.Results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(&b, "  %s: check failed, no new items\n", res.Subscription.Name)
		default:
			fmt.Fprintf(&b, "  %s: %d new items\n", res.Subscription.Name, res.NewItems)
		}
	}
	return b.String()
}

// formatItemList renders stored items newest-first.
func formatItemList(items []model.FeedItem, typeLabel string) string {
	if len(items) == 0 {
		if typeLabel != "" {
			return fmt.Sprintf("No items stored for type %q. Run check_feeds first.", typeLabel)
		}
		return "No items stored yet. Run check_feeds first."
	}

	var b strings.Builder
	if typeLabel != "" {
		fmt.Fprintf(&b, "Recent %s items (%d):\n", typeLabel, len(items))
	} else {
		fmt.Fprintf(&b, "Recent items (%d):\n", len(items))
	}
	for i, item := range items {
		writeItem(&b, i+1, item)
	}
	return b.String()
}

// formatSearchResults renders ranked search hits.
func formatSearchResults(query string, items []model.FeedItem) string {
	if len(items) == 0 {
		return fmt.Sprintf("No results for %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for %q (%d):\n", query, len(items))
	for i, item := range items {
		writeItem(&b, i+1, item)
	}
	return b.String()
}

func writeItem(b *strings.Builder, n int, item model.FeedItem) {
	fmt.Fprintf(b, "\n%d. %s\n", n, item.Title)
	fmt.Fprintf(b, "   URL: %s\n", item.URL)
	var details []string
	if item.Author != "" {
		details = append(details, item.Author)
	}
	if item.Published != "" {
		details = append(details, item.Published)
	}
	if len(details) > 0 {
		fmt.Fprintf(b, "   %s\n", strings.Join(details, " | "))
	}
	if item.Content != "" {
		preview := item.Content
		if len(preview) > contentPreviewLen {
			preview = preview[:contentPreviewLen] + "..."
		}
		fmt.Fprintf(b, "   %s\n", preview)
	}
}
