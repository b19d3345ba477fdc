package resolve

// Categorized partitions a completed batch. Found and NotFound partition
// the input by resolved id; Errors is an independent filter over the same
// list, so an errored result appears in both NotFound and Errors.
type Categorized struct {
	Found    []Result `json:"found"`
	NotFound []Result `json:"not_found"`
	Errors   []Result `json:"errors"`
	Stats    Stats    `json:"stats"`
}

// Stats summarizes a categorized batch. ByMethod breaks down the found
// count by resolution strategy.
type Stats struct {
	Total    int            `json:"total"`
	Found    int            `json:"found"`
	NotFound int            `json:"not_found"`
	Errors   int            `json:"errors"`
	ByMethod map[Method]int `json:"by_method,omitempty"`
}

// Categorize partitions and summarizes batch results, preserving order
// within each category.
func Categorize(results []Result) Categorized {
	c := Categorized{
		Stats: Stats{
			Total:    len(results),
			ByMethod: make(map[Method]int),
		},
	}

	for _, r := range results {
		if r.Found() {
			c.Found = append(c.Found, r)
			c.Stats.ByMethod[r.Method]++
		} else {
			c.NotFound = append(c.NotFound, r)
		}
		if r.Err != "" {
			c.Errors = append(c.Errors, r)
		}
	}

	c.Stats.Found = len(c.Found)
	c.Stats.NotFound = len(c.NotFound)
	c.Stats.Errors = len(c.Errors)
	return c
}
