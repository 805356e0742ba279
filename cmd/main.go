package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/1F47E/go-polygon-index/pkg/models"
	"github.com/1F47E/go-polygon-index/pkg/postgis"
	"github.com/1F47E/go-polygon-index/pkg/query"
	"github.com/1F47E/go-polygon-index/pkg/rtree"
	"github.com/1F47E/go-polygon-index/pkg/source"
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
	indexFile  string
	verbose    bool

	cfg Config
)

var rootCmd = &cobra.Command{
	Use:   "go-polygon-index",
	Short: "Spatial index over polygon edges with batch distance and containment queries",
	Long: `Builds a bounding volume hierarchy over the edges of many polygons and answers,
for batches of points, the distance to the nearest edge, the nearest vertex and
whether each point lies inside any polygon.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configFile, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if err := loadEnv(&cfg, envFile); err != nil {
			return err
		}
		applyConfig(cmd, cfg)
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build an index from a polygon template",
	Long:  `Read a template ring from a file or PostGIS, stamp it --blocks times --offset apart and save the index.`,
	Run:   runBuild,
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run batch queries against a saved index",
	Long:  `Load an index and answer edge, vertex, containment or weighted vertex queries for a batch of points.`,
	Run:   runQuery,
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage polygon templates stored in PostGIS",
}

var templatePushCmd = &cobra.Command{
	Use:   "push NAME",
	Short: "Store a template file in PostGIS under NAME",
	Args:  cobra.ExactArgs(1),
	Run:   runTemplatePush,
}

var (
	templateFile string
	pgTemplate   string
	numBlocks    int
	xOffset      float64
	yOffset      float64

	pointsFile string
	numRandom  int
	seed       int64
	margin     float64
	queryType  string
	scale      float64
	jsonOut    bool
	geojsonOut bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Environment file with PG_* settings")
	rootCmd.PersistentFlags().StringVarP(&indexFile, "file", "f", "polygon_index.gob", "Index file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	buildCmd.Flags().StringVarP(&templateFile, "template", "t", "", "Template file with one \"x y [weight]\" vertex per line")
	buildCmd.Flags().StringVar(&pgTemplate, "pg-template", "", "Name of a template stored in PostGIS")
	buildCmd.Flags().IntVarP(&numBlocks, "blocks", "b", 1, "Number of template copies")
	buildCmd.Flags().Float64Var(&xOffset, "offset", 5, "X shift between consecutive copies")
	buildCmd.Flags().Float64Var(&yOffset, "y-offset", 0, "Y shift between consecutive copies")
	buildCmd.MarkFlagsMutuallyExclusive("template", "pg-template")
	buildCmd.MarkFlagsOneRequired("template", "pg-template")

	queryCmd.Flags().StringVarP(&pointsFile, "points", "p", "", "File with one \"x y\" query point per line")
	queryCmd.Flags().IntVarP(&numRandom, "random", "n", 50000, "Number of random query points when --points is not set")
	queryCmd.Flags().Int64Var(&seed, "seed", 1, "Seed for random query points")
	queryCmd.Flags().Float64Var(&margin, "margin", 1, "Padding around the index bounds for random points")
	queryCmd.Flags().StringVar(&queryType, "type", "all", "Query type: edge, vertex, contains, weighted or all")
	queryCmd.Flags().Float64Var(&scale, "scale", 1, "Distance scale for weighted vertex queries")
	queryCmd.Flags().BoolVar(&jsonOut, "json", false, "Write results as JSON")
	queryCmd.Flags().BoolVar(&geojsonOut, "geojson", false, "Write results as a GeoJSON FeatureCollection")
	queryCmd.MarkFlagsMutuallyExclusive("json", "geojson")

	templatePushCmd.Flags().StringVarP(&templateFile, "template", "t", "", "Template file with one \"x y [weight]\" vertex per line")
	templatePushCmd.MarkFlagRequired("template")

	templateCmd.AddCommand(templatePushCmd)
	rootCmd.AddCommand(buildCmd, queryCmd, templateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore() *postgis.TemplateStore {
	pg := cfg.PostGIS
	store, err := postgis.NewTemplateStore(pg.Host, pg.User, pg.Password, pg.Database, pg.Port)
	if err != nil {
		log.Fatalf("Failed to connect to PostGIS: %v", err)
	}
	return store
}

func runBuild(cmd *cobra.Command, args []string) {
	var (
		vertices []models.Point
		weights  []float64
		err      error
	)

	if pgTemplate != "" {
		store := openStore()
		defer store.Close()
		vertices, weights, err = store.LoadTemplate(pgTemplate)
	} else {
		vertices, weights, err = source.ReadWeightedVector(templateFile)
	}
	if err != nil {
		log.Fatalf("Failed to read template: %v", err)
	}

	xs, ys := source.Split(vertices)
	polygons, err := source.BuildWeightedGrid(xs, ys, weights, numBlocks, xOffset, yOffset)
	if err != nil {
		log.Fatalf("Failed to build polygons: %v", err)
	}

	start := time.Now()
	tree := rtree.Build(polygons)
	elapsed := time.Since(start)

	if err := tree.SaveToFile(indexFile); err != nil {
		log.Fatalf("Failed to save index: %v", err)
	}

	printTitle("Index built")
	printStat("Polygons", tree.NumPolygons())
	printStat("Edges", tree.Len())
	printStat("Depth", tree.Depth())
	if verbose {
		printStat("Build time", elapsed)
	}
	printSuccess(fmt.Sprintf("Index saved to %s", indexFile))
}

func runQuery(cmd *cobra.Command, args []string) {
	wantEdge, wantVertex, wantContains, wantWeighted := false, false, false, false
	switch queryType {
	case "edge":
		wantEdge = true
	case "vertex":
		wantVertex = true
	case "contains":
		wantContains = true
	case "weighted":
		wantWeighted = true
	case "all":
		wantEdge, wantVertex, wantContains, wantWeighted = true, true, true, true
	default:
		log.Fatalf("Unknown query type %q", queryType)
	}
	if wantWeighted && scale < 0 {
		log.Fatalf("Scale must not be negative, got %g", scale)
	}

	tree, err := rtree.LoadFromFile(indexFile)
	if err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}

	var points []models.Point
	if pointsFile != "" {
		points, err = source.ReadVector(pointsFile)
		if err != nil {
			log.Fatalf("Failed to read points: %v", err)
		}
	} else {
		box := tree.Bounds()
		if box.IsEmpty() {
			box = box.Extend(models.Point{})
		}
		r := rand.New(rand.NewSource(seed))
		points = source.RandomPoints(r, numRandom, box.Pad(margin))
	}

	results := make([]result, len(points))
	for i, p := range points {
		results[i].Point = p
	}

	start := time.Now()
	if wantEdge {
		for i, d := range query.NearestEdgeDistances(tree, points) {
			results[i].EdgeDistance = finite(d)
		}
	}
	if wantVertex {
		for i, v := range query.NearestVertices(tree, points) {
			if v.VertexIndex != models.NoVertex {
				results[i].Vertex = &v
			}
		}
	}
	inside := 0
	if wantContains {
		for i, c := range query.ContainsPoints(tree, points) {
			results[i].Inside = &c
			if c {
				inside++
			}
		}
	}
	if wantWeighted {
		for i, d := range query.WeightedVertexDistances(tree, points, scale) {
			results[i].Weighted = finite(d)
		}
	}
	elapsed := time.Since(start)

	switch {
	case jsonOut:
		err = writeJSON(os.Stdout, results)
	case geojsonOut:
		err = writeGeoJSON(os.Stdout, results)
	default:
		err = writeText(os.Stdout, results)
	}
	if err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}

	if verbose {
		printTitle("Query summary")
		printStat("Edges", tree.Len())
		printStat("Points", len(points))
		if wantContains {
			printStat("Inside", inside)
		}
		printStat("Query time", elapsed)
	}
}

func runTemplatePush(cmd *cobra.Command, args []string) {
	name := args[0]

	vertices, weights, err := source.ReadWeightedVector(templateFile)
	if err != nil {
		log.Fatalf("Failed to read template: %v", err)
	}
	if allZero(weights) {
		weights = nil
	}

	store := openStore()
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	if err := store.SaveTemplate(name, vertices, weights); err != nil {
		log.Fatalf("Failed to save template: %v", err)
	}

	count, err := store.Count()
	if err != nil {
		log.Fatalf("Failed to count templates: %v", err)
	}

	printSuccess(fmt.Sprintf("Template %s saved (%d vertices)", name, len(vertices)))
	printStat("Stored templates", count)
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}
