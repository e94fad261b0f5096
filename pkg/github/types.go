package github

// Tag is an entry of GET /repos/{owner}/{repo}/tags.
type Tag struct {
	Name       string    `json:"name"`
	Commit     CommitRef `json:"commit"`
	ZipballURL string    `json:"zipball_url,omitempty"`
	TarballURL string    `json:"tarball_url,omitempty"`
	NodeID     string    `json:"node_id,omitempty"`
}

// CommitRef is the commit a tag points to.
type CommitRef struct {
	SHA string `json:"sha"`
	URL string `json:"url,omitempty"`
}

// Commit is the subset of GET /repos/{owner}/{repo}/commits/{sha} that taglog reads.
type Commit struct {
	SHA    string        `json:"sha"`
	Commit CommitDetails `json:"commit"`
}

type CommitDetails struct {
	Message   string    `json:"message"`
	Author    Signature `json:"author"`
	Committer Signature `json:"committer"`
}

// Signature carries the RFC 3339 timestamp GitHub reports for authors and committers.
type Signature struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}
