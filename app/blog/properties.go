package blog

import (
	"strconv"
	"strings"
)

// Property names. Lookups ignore case because configuration loaders lowercase map keys.
const (
	NameKey                        = "name"
	DescriptionKey                 = "description"
	AuthorKey                      = "author"
	EmailKey                       = "email"
	TimeZoneKey                    = "timeZone"
	LanguageKey                    = "language"
	CountryKey                     = "country"
	PrivateKey                     = "private"
	ThemeKey                       = "theme"
	RecentBlogEntriesOnHomePageKey = "recentBlogEntriesOnHomePage"
	RecentResponsesOnHomePageKey   = "recentResponsesOnHomePage"
	PermalinkProviderKey           = "permalinkProviderName"
	EventDispatcherKey             = "eventDispatcher"
	LoggerKey                      = "logger"
	BlogOwnersKey                  = "blogOwners"
	BlogContributorsKey            = "blogContributors"
	BlogListenersKey               = "blogListeners"
	BlogEntryListenersKey          = "blogEntryListeners"
	CommentListenersKey            = "commentListeners"
	TrackBackListenersKey          = "trackBackListeners"
	BlogEntryDecoratorsKey         = "blogEntryDecorators"
	UpdateNotificationPingsKey     = "updateNotificationPings"
)

// Roles understood by IsUserInRole.
const (
	OwnerRole       = "owner"
	ContributorRole = "contributor"
)

var defaultProperties = map[string]string{
	NameKey:                        "My blog",
	DescriptionKey:                 "",
	AuthorKey:                      "Blog Owner",
	EmailKey:                       "blog@yourdomain.com",
	TimeZoneKey:                    "Europe/London",
	LanguageKey:                    "en",
	CountryKey:                     "GB",
	PrivateKey:                     "false",
	ThemeKey:                       "default",
	RecentBlogEntriesOnHomePageKey: "3",
	RecentResponsesOnHomePageKey:   "3",
	PermalinkProviderKey:           "default",
	EventDispatcherKey:             "default",
	LoggerKey:                      "combined",
	BlogEntryDecoratorsKey:         HideUnapprovedBlogEntriesName + "\n" + HideUnapprovedResponsesName,
}

// Properties is a blog's string configuration with defaults applied.
type Properties map[string]string

// NewProperties merges values over the defaults.
func NewProperties(values map[string]string) Properties {
	p := make(Properties, len(defaultProperties)+len(values))
	for k, v := range defaultProperties {
		p[strings.ToLower(k)] = v
	}
	for k, v := range values {
		p[strings.ToLower(k)] = v
	}
	return p
}

func (p Properties) Get(key string) string {
	return p[strings.ToLower(key)]
}

// Int returns the property as an int, or def when it is missing or malformed.
func (p Properties) Int(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(p.Get(key)))
	if err != nil {
		return def
	}
	return n
}

// List splits a property on commas and whitespace.
func (p Properties) List(key string) []string {
	return strings.FieldsFunc(p.Get(key), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
}

func (b *Blog) Property(key string) string {
	return b.props.Get(key)
}

func (b *Blog) Properties() Properties {
	p := make(Properties, len(b.props))
	for k, v := range b.props {
		p[k] = v
	}
	return p
}

func (b *Blog) Name() string   { return b.props.Get(NameKey) }
func (b *Blog) Author() string { return b.props.Get(AuthorKey) }

func (b *Blog) IsPrivate() bool {
	private, _ := strconv.ParseBool(b.props.Get(PrivateKey))
	return private
}

func (b *Blog) IsPublic() bool {
	return !b.IsPrivate()
}

func (b *Blog) EmailAddresses() []string {
	return b.props.List(EmailKey)
}

// FirstEmailAddress returns "" when no address is configured.
func (b *Blog) FirstEmailAddress() string {
	addresses := b.EmailAddresses()
	if len(addresses) == 0 {
		return ""
	}
	return addresses[0]
}

// UpdateNotificationPings lists the distinct ping URLs in configuration order.
func (b *Blog) UpdateNotificationPings() []string {
	var pings []string
	seen := make(map[string]struct{})
	for _, url := range strings.Fields(b.props.Get(UpdateNotificationPingsKey)) {
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		pings = append(pings, url)
	}
	return pings
}

func roleKey(role string) string {
	switch role {
	case OwnerRole:
		return BlogOwnersKey
	case ContributorRole:
		return BlogContributorsKey
	}
	return ""
}

// UsersInRole returns the users configured for role.
func (b *Blog) UsersInRole(role string) []string {
	key := roleKey(role)
	if key == "" {
		return nil
	}
	return b.props.List(key)
}

// IsUserInRole is true when user is listed for role, or when nobody is.
func (b *Blog) IsUserInRole(role, user string) bool {
	if roleKey(role) == "" {
		return false
	}
	users := b.UsersInRole(role)
	if len(users) == 0 {
		return true
	}
	for _, u := range users {
		if u == user {
			return true
		}
	}
	return false
}

func (b *Blog) RecentBlogEntriesOnHomePage() int {
	return b.props.Int(RecentBlogEntriesOnHomePageKey, 3)
}

func (b *Blog) RecentResponsesOnHomePage() int {
	return b.props.Int(RecentResponsesOnHomePageKey, 3)
}
