package iotmdb

// page is the envelope of search and list answers.
type page struct {
	Page         int      `json:"page"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
	Results      []result `json:"results"`
}

type result struct {
	ID            int64   `json:"id"`
	Title         *string `json:"title"`
	Name          *string `json:"name"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    *string `json:"poster_path"`
	BackdropPath  *string `json:"backdrop_path"`
	GenreIDs      []int   `json:"genre_ids"`
}

type detail struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	OriginalTitle       string  `json:"original_title"`
	Overview            string  `json:"overview"`
	ReleaseDate         string  `json:"release_date"`
	Runtime             *int    `json:"runtime"`
	PosterPath          *string `json:"poster_path"`
	BackdropPath        *string `json:"backdrop_path"`
	Genres              []named `json:"genres"`
	ProductionCountries []struct {
		ISO string `json:"iso_3166_1"`
	} `json:"production_countries"`
	Credits struct {
		Cast []castMember `json:"cast"`
		Crew []crewMember `json:"crew"`
	} `json:"credits"`
	WatchProviders struct {
		Results map[string]watchRegion `json:"results"`
	} `json:"watch/providers"`
	ReleaseDates struct {
		Results []struct {
			ISO          string `json:"iso_3166_1"`
			ReleaseDates []struct {
				Certification string `json:"certification"`
			} `json:"release_dates"`
		} `json:"results"`
	} `json:"release_dates"`
}

type named struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type castMember struct {
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	Order       int     `json:"order"`
	ProfilePath *string `json:"profile_path"`
}

type crewMember struct {
	Name               string  `json:"name"`
	Job                string  `json:"job"`
	Department         string  `json:"department"`
	KnownForDepartment string  `json:"known_for_department"`
	ProfilePath        *string `json:"profile_path"`
}

type watchRegion struct {
	Link     string          `json:"link"`
	Flatrate []watchProvider `json:"flatrate"`
	Rent     []watchProvider `json:"rent"`
	Buy      []watchProvider `json:"buy"`
}

type watchProvider struct {
	ProviderID   int64   `json:"provider_id"`
	ProviderName string  `json:"provider_name"`
	LogoPath     *string `json:"logo_path"`
}

type images struct {
	Backdrops []struct {
		FilePath string `json:"file_path"`
	} `json:"backdrops"`
}
