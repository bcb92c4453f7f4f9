package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"blogd/app/blog"
	"blogd/app/cache"
	"blogd/app/models"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// BlogController serves the read-only views of a blog.
type BlogController struct {
	controller
}

// NewBlogController creates a new BlogController
func NewBlogController(manager *blog.Manager, cache cache.CacheProviderInterface, log *logrus.Logger) *BlogController {
	return &BlogController{controller{manager: manager, cache: cache, log: log}}
}

type blogSummary struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Author          string            `json:"author"`
	Email           string            `json:"email,omitempty"`
	TimeZone        string            `json:"timeZone"`
	Language        string            `json:"language"`
	Country         string            `json:"country"`
	Private         bool              `json:"private"`
	Started         bool              `json:"started"`
	LastModified    time.Time         `json:"lastModified"`
	Recent          []entryResponse   `json:"recent"`
	RecentResponses []models.Response `json:"recentResponses"`
}

type monthSummary struct {
	Month   int `json:"month"`
	Entries int `json:"entries"`
}

type yearArchive struct {
	Year   int            `json:"year"`
	Months []monthSummary `json:"months"`
}

type entriesArchive struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Day      int             `json:"day,omitempty"`
	Entries  []entryResponse `json:"entries"`
	Previous string          `json:"previous,omitempty"`
	Next     string          `json:"next,omitempty"`
}

type tagResponse struct {
	Name    string `json:"name"`
	Rank    int    `json:"rank"`
	Entries int    `json:"entries"`
}

type searchRequest struct {
	Query string `validate:"required,max=200"`
}

// recentFor picks the entries a viewer may see. Anonymous viewers count
// approved entries only.
func recentFor(b *blog.Blog, r *http.Request, n int, find func(n int, approvedOnly bool) []*models.BlogEntry) []*models.BlogEntry {
	v := viewerFrom(r)
	return b.Decorate(v, find(n, !b.IsAuthorised(v)))
}

// Summary describes the blog and its home page content.
func (bc *BlogController) Summary(w http.ResponseWriter, r *http.Request) {
	b, ok := bc.blog(w, r)
	if !ok {
		return
	}
	bc.serveCached(w, r, func() (any, int) {
		recent := recentFor(b, r, b.RecentBlogEntriesOnHomePage(), b.RecentBlogEntries)
		responses := b.Responses().RecentApprovedResponses(b.RecentResponsesOnHomePage())
		if responses == nil {
			responses = []models.Response{}
		}
		return blogSummary{
			ID:              b.ID(),
			Name:            b.Name(),
			Description:     b.Property(blog.DescriptionKey),
			Author:          b.Author(),
			Email:           b.FirstEmailAddress(),
			TimeZone:        b.Location().String(),
			Language:        b.Property(blog.LanguageKey),
			Country:         b.Property(blog.CountryKey),
			Private:         b.IsPrivate(),
			Started:         b.IsStarted(),
			LastModified:    b.LastModified(),
			Recent:          render(b, recent),
			RecentResponses: responses,
		}, http.StatusOK
	})
}

// Entries lists recent entries, optionally within a category or tag.
func (bc *BlogController) Entries(w http.ResponseWriter, r *http.Request) {
	b, ok := bc.blog(w, r)
	if !ok {
		return
	}
	bc.serveCached(w, r, func() (any, int) {
		n := intParam(r, "n", b.RecentBlogEntriesOnHomePage())
		query := r.URL.Query()

		switch {
		case query.Get("category") != "":
			c := b.Category(query.Get("category"))
			if c == nil {
				return map[string]string{"error": "Category not found"}, http.StatusNotFound
			}
			return render(b, recentFor(b, r, n, func(n int, approvedOnly bool) []*models.BlogEntry {
				return b.RecentBlogEntriesForCategory(c, n, approvedOnly)
			})), http.StatusOK
		case query.Get("tag") != "":
			tag := query.Get("tag")
			return render(b, recentFor(b, r, n, func(n int, approvedOnly bool) []*models.BlogEntry {
				return b.RecentBlogEntriesForTag(tag, n, approvedOnly)
			})), http.StatusOK
		default:
			return render(b, recentFor(b, r, n, b.RecentBlogEntries)), http.StatusOK
		}
	})
}

// Archive lists a year by month, or the entries of a month or a day.
func (bc *BlogController) Archive(w http.ResponseWriter, r *http.Request) {
	b, ok := bc.blog(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	month, _ := strconv.Atoi(vars["month"])
	day, _ := strconv.Atoi(vars["day"])

	// Years after the current one would be appended to the calendar.
	if year > b.Now().Year() {
		bc.sendError(w, "No such archive", http.StatusNotFound)
		return
	}

	bc.serveCached(w, r, func() (any, int) {
		switch {
		case vars["month"] == "":
			archive := yearArchive{Year: year, Months: []monthSummary{}}
			for m := 1; m <= 12; m++ {
				entries, _ := b.MonthEntries(year, m)
				if n := len(visible(b, r, entries)); n > 0 {
					archive.Months = append(archive.Months, monthSummary{Month: m, Entries: n})
				}
			}
			return archive, http.StatusOK
		case vars["day"] == "":
			entries, err := b.MonthEntries(year, month)
			if err != nil {
				return map[string]string{"error": err.Error()}, http.StatusNotFound
			}
			archive := entriesArchive{Year: year, Month: month, Entries: render(b, visible(b, r, entries))}
			archive.Previous, archive.Next = neighbours(b, time.Date(year, time.Month(month), 1, 0, 0, 0, 0, b.Location()), 1, 0, monthPath)
			return archive, http.StatusOK
		default:
			entries, err := b.DayEntries(year, month, day)
			if err != nil {
				return map[string]string{"error": err.Error()}, http.StatusNotFound
			}
			archive := entriesArchive{Year: year, Month: month, Day: day, Entries: render(b, visible(b, r, entries))}
			archive.Previous, archive.Next = neighbours(b, time.Date(year, time.Month(month), day, 0, 0, 0, 0, b.Location()), 0, 1, dayPath)
			return archive, http.StatusOK
		}
	})
}

// neighbours links the archive pages either side of t, stepping by months
// and days. Links never reach before the first month or past today.
func neighbours(b *blog.Blog, t time.Time, months, days int, path func(time.Time) string) (prev, next string) {
	first := b.BlogForFirstMonth()
	start := time.Date(first.Year, time.Month(first.Month), 1, 0, 0, 0, 0, b.Location())
	now := b.Now()

	if p := t.AddDate(0, -months, -days); !p.Before(start) {
		prev = path(p)
	}
	if n := t.AddDate(0, months, days); !n.After(now) {
		next = path(n)
	}
	return prev, next
}

func monthPath(t time.Time) string {
	return "/archives/" + strconv.Itoa(t.Year()) + "/" + pad(int(t.Month()))
}

func dayPath(t time.Time) string {
	return monthPath(t) + "/" + pad(t.Day())
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Permalink resolves a date based entry permalink.
func (bc *BlogController) Permalink(w http.ResponseWriter, r *http.Request) {
	b, ok := bc.blog(w, r)
	if !ok {
		return
	}
	if year, _ := strconv.Atoi(mux.Vars(r)["year"]); year > b.Now().Year() {
		bc.sendError(w, "Blog entry not found", http.StatusNotFound)
		return
	}
	uri := strings.TrimPrefix(r.URL.Path, "/blogs/"+b.ID())

	bc.serveCached(w, r, func() (any, int) {
		e, err := b.ResolvePermalink(uri)
		if err != nil || e == nil {
			return map[string]string{"error": "Blog entry not found"}, http.StatusNotFound
		}
		shown := visible(b, r, []*models.BlogEntry{e})
		if len(shown) == 0 {
			return map[string]string{"error": "Blog entry not found"}, http.StatusNotFound
		}
		return entryResponse{BlogEntry: shown[0], Permalink: b.Permalink(e)}, http.StatusOK
	})
}

// Tags lists the tags in use with their ranks.
func (bc *BlogController) Tags(w http.ResponseWriter, r *http.Request) {
	b, ok := bc.blog(w, r)
	if !ok {
		return
	}
	bc.serveCached(w, r, func() (any, int) {
		tags := b.TagSummaries()
		out := make([]tagResponse, 0, len(tags))
		for _, t := range tags {
			out = append(out, tagResponse{Name: t.Name, Rank: t.Rank, Entries: t.Entries})
		}
		return out, http.StatusOK
	})
}

// Tag lists the recent entries carrying a tag.
func (bc *BlogController) Tag(w http.ResponseWriter, r *http.Request) {
	b, ok := bc.blog(w, r)
	if !ok {
		return
	}
	tag := models.EncodeTag(mux.Vars(r)["tag"])
	bc.serveCached(w, r, func() (any, int) {
		n := intParam(r, "n", b.RecentBlogEntriesOnHomePage())
		return render(b, recentFor(b, r, n, func(n int, approvedOnly bool) []*models.BlogEntry {
			return b.RecentBlogEntriesForTag(tag, n, approvedOnly)
		})), http.StatusOK
	})
}

// Responses lists recent comments and trackbacks. Authorised viewers may ask
// for another state than approved.
func (bc *BlogController) Responses(w http.ResponseWriter, r *http.Request) {
	b, ok := bc.blog(w, r)
	if !ok {
		return
	}
	state := models.StateApproved
	if s := models.State(r.URL.Query().Get("state")); s != "" && b.IsAuthorised(viewerFrom(r)) {
		state = s
	}
	bc.serveCached(w, r, func() (any, int) {
		responses := b.Responses().RecentResponses(state, intParam(r, "n", b.RecentResponsesOnHomePage()))
		if responses == nil {
			responses = []models.Response{}
		}
		return responses, http.StatusOK
	})
}

// Search runs a full text query against the blog's index.
func (bc *BlogController) Search(w http.ResponseWriter, r *http.Request) {
	b, ok := bc.blog(w, r)
	if !ok {
		return
	}
	req := searchRequest{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
	if err := validate.Struct(req); err != nil {
		bc.sendError(w, "Invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}
	bc.serveCached(w, r, func() (any, int) {
		return render(b, visible(b, r, b.Search(req.Query))), http.StatusOK
	})
}

// Drafts lists unpublished drafts by title. Only owners and contributors see them.
func (bc *BlogController) Drafts(w http.ResponseWriter, r *http.Request) {
	bc.undated(w, r, (*blog.Blog).DraftBlogEntries, true)
}

func (bc *BlogController) Templates(w http.ResponseWriter, r *http.Request) {
	bc.undated(w, r, (*blog.Blog).BlogEntryTemplates, true)
}

// Pages lists static pages, decorated for the viewer.
func (bc *BlogController) Pages(w http.ResponseWriter, r *http.Request) {
	bc.undated(w, r, (*blog.Blog).StaticPages, false)
}

func (bc *BlogController) undated(w http.ResponseWriter, r *http.Request, list func(*blog.Blog) []*models.BlogEntry, private bool) {
	b, ok := bc.blog(w, r)
	if !ok {
		return
	}
	if private && !b.IsAuthorised(viewerFrom(r)) {
		bc.sendError(w, "Forbidden", http.StatusForbidden)
		return
	}
	out := make([]*models.BlogEntry, 0)
	out = append(out, visible(b, r, list(b))...)
	bc.sendJSON(w, http.StatusOK, out)
}
