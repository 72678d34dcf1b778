// Package github fetches the documentation file set from a GitHub
// repository using the Git trees API. One tree call lists every file;
// individual markdown blobs are then fetched and decoded.
//
// Requests are throttled proactively and react to the rate limit
// headers GitHub returns. An unauthenticated client works against
// public repositories at the lower anonymous quota.
package github
