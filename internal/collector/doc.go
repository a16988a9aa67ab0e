// Package collector fetches raw event listings from external sources.
//
// Four collectors are provided: a web search API (SearchCollector), the public
// listing pages of an events site parsed with goquery (ListingsCollector),
// venue RSS/Atom feeds (FeedCollector), and Twitter search (SocialCollector).
// Each issues its requests sequentially with a polite delay between them and
// skips titles it has already produced. No collector ever returns an error:
// missing credentials, failed requests and unparseable items are logged and
// treated as zero results, so one bad source never aborts a run.
package collector
