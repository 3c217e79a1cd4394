package picker

import "strings"

const (
	styleName = "default-light-standard"
	tileHost  = "api.olamaps.io"
)

// StyleURL returns the map style descriptor URL the rendering surface loads.
func StyleURL() string {
	return "https://" + tileHost + "/tiles/vector/v1/styles/" + styleName + "/style.json"
}

// AuthorizeTileURL rewrites a tile/style resource URL for fetching: requests
// are pinned to the API host and carry the provider API key as a query
// parameter.
func AuthorizeTileURL(url, apiKey string) string {
	url = strings.Replace(url, "app.olamaps.io", tileHost, 1)
	separator := "?"
	if strings.Contains(url, "?") {
		separator = "&"
	}
	return url + separator + "api_key=" + apiKey
}
