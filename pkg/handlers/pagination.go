package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/audit"
	"github.com/ekaya-inc/chatbot-admin/pkg/config"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
	"github.com/ekaya-inc/chatbot-admin/pkg/sql"
)

// HeaderTotalCount carries the number of records across all pages.
const HeaderTotalCount = "X-Total-Count"

// Pager parses page requests and writes the paging headers of a list response.
type Pager struct {
	defaultSize int
	maxSize     int
	auditor     *audit.SecurityAuditor
	logger      *zap.Logger
}

// NewPager creates a Pager bounded by the configured page sizes.
func NewPager(cfg config.PaginationConfig, auditor *audit.SecurityAuditor, logger *zap.Logger) *Pager {
	return &Pager{
		defaultSize: cfg.DefaultSize,
		maxSize:     cfg.MaxSize,
		auditor:     auditor,
		logger:      logger,
	}
}

// Parse reads `page`, `size` and repeated `sort=property[,asc|desc]` parameters.
// Sort values are screened for SQL injection before they reach a repository;
// whether a property can be ordered by is decided there.
func (p *Pager) Parse(w http.ResponseWriter, r *http.Request, resourceName string) (models.Pageable, bool) {
	q := r.URL.Query()
	pageable := models.Pageable{Page: 0, Size: p.defaultSize}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			p.reject(w, r, resourceName, "invalid_page", "page must be a non-negative integer")
			return models.Pageable{}, false
		}
		pageable.Page = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			p.reject(w, r, resourceName, "invalid_size", "size must be a positive integer")
			return models.Pageable{}, false
		}
		pageable.Size = min(n, p.maxSize)
	}

	sorts := q["sort"]
	if result := sql.CheckAllValues("sort", sorts); result != nil {
		p.auditor.LogInjectionAttempt(r.Context(), resourceName, audit.InjectionDetails{
			ParamName:   result.ParamName,
			ParamValue:  result.ParamValue,
			Fingerprint: result.Fingerprint,
		}, r.RemoteAddr)
		p.writeError(w, http.StatusBadRequest, "invalid_sort", "Invalid sort parameter")
		return models.Pageable{}, false
	}
	for _, s := range sorts {
		order, ok := parseSortOrder(s)
		if !ok {
			p.reject(w, r, resourceName, "invalid_sort", fmt.Sprintf("invalid sort parameter %q", s))
			return models.Pageable{}, false
		}
		pageable.Sort = append(pageable.Sort, order)
	}
	return pageable, true
}

// parseSortOrder accepts "property", "property,asc" and "property,desc".
func parseSortOrder(s string) (models.SortOrder, bool) {
	property, dir, _ := strings.Cut(s, ",")
	property = strings.TrimSpace(property)
	if property == "" {
		return models.SortOrder{}, false
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return models.SortOrder{Property: property}, true
	case "desc":
		return models.SortOrder{Property: property, Descending: true}, true
	default:
		return models.SortOrder{}, false
	}
}

func (p *Pager) reject(w http.ResponseWriter, r *http.Request, resourceName, code, message string) {
	p.auditor.LogParameterValidation(r.Context(), resourceName, message, r.RemoteAddr)
	p.writeError(w, http.StatusBadRequest, code, message)
}

func (p *Pager) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		p.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// WriteHeaders sets X-Total-Count and an RFC 5988 Link header with next,
// prev, last and first relations. Other query parameters (sort) are kept.
func WriteHeaders[T any](w http.ResponseWriter, r *http.Request, page *models.Page[T]) {
	w.Header().Set(HeaderTotalCount, strconv.FormatInt(page.TotalElements, 10))
	w.Header().Set("Link", linkHeader(r.URL, page.Pageable.Page, page.Pageable.Size, page.TotalPages()))
}

func linkHeader(u *url.URL, page, size, totalPages int) string {
	link := func(n int, rel string) string {
		q := u.Query()
		q.Set("page", strconv.Itoa(n))
		q.Set("size", strconv.Itoa(size))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, u.Path, q.Encode(), rel)
	}

	lastPage := max(totalPages-1, 0)
	var links []string
	if page < lastPage {
		links = append(links, link(page+1, "next"))
	}
	if page > 0 {
		links = append(links, link(page-1, "prev"))
	}
	links = append(links, link(lastPage, "last"), link(0, "first"))
	return strings.Join(links, ",")
}
