package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gobuffalo/packr"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/contentpipe/contentpipe/internal/cache"
	"github.com/contentpipe/contentpipe/internal/compress"
	"github.com/contentpipe/contentpipe/internal/config"
	"github.com/contentpipe/contentpipe/internal/generator"
	"github.com/contentpipe/contentpipe/internal/jobs"
	"github.com/contentpipe/contentpipe/internal/queue"
	"github.com/contentpipe/contentpipe/internal/service"
	"github.com/contentpipe/contentpipe/internal/store"
)

// Server represents the server
type Server struct {
	httpPort string
}

// NewServer creates a new server
func NewServer(httpPort string) *Server {
	return &Server{
		httpPort: httpPort,
	}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start assembles the store, cache, queue, generator and services and serves
// the REST API until an interrupt signal arrives.
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	cnf := config.LoadConfig()
	db := config.GetDb(cnf)

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	docStore := store.NewGormStore(db)
	if err := docStore.Migrate(); err != nil {
		return err
	}

	var draftCache cache.DraftCache = cache.NewNop()
	if cnf.RedisAddr != "" {
		draftCache = cache.NewRedisDraftCache(cnf.RedisAddr)
		logrus.Info("draft cache backed by redis at ", cnf.RedisAddr)
	}

	var extractionQueue queue.ExtractionQueue = queue.NewNop()
	if cnf.KafkaBrokers != "" {
		extractionQueue, err = queue.NewKafkaQueue(cnf.KafkaBrokers)
		if err != nil {
			return err
		}
		logrus.Info("extraction queue backed by kafka at ", cnf.KafkaBrokers)
	}
	defer extractionQueue.Close()

	codec := compress.ByName(cnf.Compression)

	var llm generator.LLM
	if cnf.OpenAIAPIKey != "" {
		llm, err = generator.NewOpenAILLM(generator.Settings{
			Model:   cnf.OpenAIModel,
			APIKey:  cnf.OpenAIAPIKey,
			BaseURL: cnf.OpenAIBaseURL,
		})
		if err != nil {
			return err
		}
		logrus.Info("using openai provider: ", cnf.OpenAIModel)
	} else {
		logrus.Warn("no AI provider configured, drafts use the local generator")
	}
	gen := generator.NewService(llm, cnf.GenerateTimeout)

	projectService := service.NewProjectService(docStore, draftCache)
	sourceService := service.NewSourceService(docStore, projectService, extractionQueue, codec)
	draftService := service.NewDraftService(docStore, projectService, gen, draftCache, codec)

	apiMux := http.NewServeMux()
	openapiDocs := packr.NewBox("../../docs/v1")
	docsPath := "/v1/docs/"
	apiMux.Handle(docsPath, http.StripPrefix(docsPath, http.FileServer(openapiDocs)))
	apiMux.Handle("/", NewHandler(projectService, sourceService, draftService, cnf.JWTSecret))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:    httpPort,
		Handler: RequestTimeMiddleware(c.Handler(apiMux)),
	}

	executor := jobs.NewTaskExecutor([]jobs.CronJob{
		jobs.NewSourceReaper(docStore, cnf.SourceMaxAge, cnf.ReaperSchedule),
	})
	executor.Run()

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting rest server on: ", httpPort)
		logrus.Info("click on the following link to view the API documentation: http://localhost", httpPort, "/v1/docs/")
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting rest server: %v", err)
			}
		}
		logrus.Infof("rest server stopped")
	}()

	time.Sleep(1 * time.Second)
	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	executor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := restServer.Shutdown(ctx); err != nil {
		logrus.Errorf("error stopping rest server: %v", err)
	}

	wg.Wait()

	return nil
}
