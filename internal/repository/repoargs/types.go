package repoargs

type RepositoryName string

const (
	UserRepoName RepositoryName = "user"
	LotRepoName  RepositoryName = "lot"
)
