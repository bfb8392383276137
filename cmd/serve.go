package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/lorekeep/cardscope/internal/dataset"
	"github.com/lorekeep/cardscope/internal/session"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dataset]",
	Short: "Serve the dataset browser as a local HTTP API",
	Long: `Serve exposes the navigation session over a local HTTP API, for review
front-ends that want to drive the browser from outside the terminal. The
server binds to localhost only by default; there is no remote surface.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDatasetPath(args)
		if err != nil {
			return err
		}
		raw, err := readDataset(path)
		if err != nil {
			return err
		}

		sess := session.New()
		if _, _, err := sess.Load(raw); err != nil && !errors.Is(err, session.ErrNoData) {
			return err
		}

		addr, _ := cmd.Flags().GetString("addr")
		srv := &reviewServer{sess: sess, path: path}

		gin.SetMode(gin.ReleaseMode)
		r := gin.Default()
		srv.registerRoutes(r)

		fmt.Printf("Serving %s on http://%s\n", path, addr)
		return r.Run(addr)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8075", "Listen address")
}

// reviewServer drives one session from HTTP handlers. gin serves requests
// concurrently, so every session access is serialized behind mu; whichever
// reload completes last is the authoritative state.
type reviewServer struct {
	mu   sync.Mutex
	sess *session.Session
	path string
}

func (s *reviewServer) registerRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/current", s.current)
		api.GET("/meta", s.meta)
		api.POST("/goto/index/:n", s.gotoIndex)
		api.POST("/goto/id/:id", s.gotoID)
		api.POST("/step/:delta", s.step)
		api.POST("/random", s.random)
		api.POST("/link/:name", s.link)
		api.POST("/boundary/next", s.boundaryNext)
		api.POST("/boundary/prev", s.boundaryPrev)
		api.POST("/reload", s.reload)
	}
}

func (s *reviewServer) current(c *gin.Context) {
	s.mu.Lock()
	card, pos, ok := s.sess.Current()
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"position": nil, "card": nil, "note": "no cards loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": pos, "card": card})
}

func (s *reviewServer) meta(c *gin.Context) {
	s.mu.Lock()
	ds := s.sess.Dataset()
	s.mu.Unlock()
	if ds == nil {
		c.JSON(http.StatusOK, gin.H{"note": "no dataset loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"language":      ds.Metadata.Language,
		"generatedOn":   ds.Metadata.GeneratedOn,
		"formatVersion": ds.Metadata.FormatVersion,
		"cards":         ds.Len(),
	})
}

func (s *reviewServer) gotoIndex(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer", "kind": "bad_request"})
		return
	}
	s.mu.Lock()
	card, pos, opErr := s.sess.GotoIndex(n)
	s.mu.Unlock()
	s.respond(c, card, pos, opErr)
}

func (s *reviewServer) gotoID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer", "kind": "bad_request"})
		return
	}
	s.mu.Lock()
	card, pos, opErr := s.sess.GotoID(id)
	s.mu.Unlock()
	s.respond(c, card, pos, opErr)
}

func (s *reviewServer) step(c *gin.Context) {
	delta, err := strconv.Atoi(c.Param("delta"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delta must be an integer", "kind": "bad_request"})
		return
	}
	s.mu.Lock()
	card, pos, opErr := s.sess.Step(delta)
	s.mu.Unlock()
	s.respond(c, card, pos, opErr)
}

func (s *reviewServer) random(c *gin.Context) {
	s.mu.Lock()
	card, pos, opErr := s.sess.GotoRandom()
	s.mu.Unlock()
	s.respond(c, card, pos, opErr)
}

func (s *reviewServer) link(c *gin.Context) {
	takeFirst := c.Query("first") == "true" || c.Query("first") == "1"
	s.mu.Lock()
	card, pos, opErr := s.sess.GotoLinked(c.Param("name"), takeFirst)
	s.mu.Unlock()
	s.respond(c, card, pos, opErr)
}

func (s *reviewServer) boundaryNext(c *gin.Context) {
	s.mu.Lock()
	card, pos, opErr := s.sess.NextSetBoundary()
	s.mu.Unlock()
	s.respond(c, card, pos, opErr)
}

func (s *reviewServer) boundaryPrev(c *gin.Context) {
	s.mu.Lock()
	card, pos, opErr := s.sess.PrevSetBoundary()
	s.mu.Unlock()
	s.respond(c, card, pos, opErr)
}

func (s *reviewServer) reload(c *gin.Context) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "kind": "read_failed"})
		return
	}
	s.mu.Lock()
	card, pos, opErr := s.sess.Load(raw)
	s.mu.Unlock()
	s.respond(c, card, pos, opErr)
}

// respond maps operation outcomes onto the wire. Quiet outcomes (empty
// dataset, no boundary) answer 200 with the unchanged position and a note;
// user-visible failures carry their error kind.
func (s *reviewServer) respond(c *gin.Context, card *dataset.Card, pos int, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"position": pos, "card": card})
		return
	}

	var (
		parseErr *dataset.ParseError
		rangeErr *dataset.OutOfRangeError
		notFound *dataset.NotFoundError
		noRel    *dataset.NoSuchRelationError
	)
	switch {
	case errors.Is(err, session.ErrNoData), errors.Is(err, dataset.ErrNoBoundary):
		s.quietNoOp(c, err)
	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "parse"})
	case errors.As(err, &rangeErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "out_of_range", "requested": rangeErr.Requested})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "not_found", "id": notFound.ID})
	case errors.As(err, &noRel):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "no_such_relation", "relation": noRel.Relation})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "kind": "internal"})
	}
}

// quietNoOp answers with the unchanged current state.
func (s *reviewServer) quietNoOp(c *gin.Context, err error) {
	s.mu.Lock()
	card, pos, ok := s.sess.Current()
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"position": nil, "card": nil, "note": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": pos, "card": card, "note": err.Error()})
}
