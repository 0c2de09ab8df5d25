package main

import (
	"context"
	"flag"
	"log"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/brianvoe/gofakeit/v6"

	"github.com/medibook/hospital-booking/internal/config"
	"github.com/medibook/hospital-booking/internal/hospital"
	"github.com/medibook/hospital-booking/pkg/logging"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	extraDoctors := flag.Int("doctors", 0, "number of extra fake doctors to register")
	flag.Parse()

	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if cfg.StoreBackend != config.BackendDynamo {
		log.Fatal("seed requires STORE_BACKEND=dynamo (the in-memory dataset seeds itself)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("aws config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	dataset := hospital.DefaultDataset()
	repo := hospital.NewDynamoRepository(
		dynamodb.NewFromConfig(awsCfg),
		hospital.DefaultTables(cfg.DynamoTablePrefix),
		dataset,
		logger,
	)

	// Listing an empty collection writes the reference data.
	deps, err := repo.ListDepartments(ctx)
	if err != nil {
		log.Fatalf("seed departments: %v", err)
	}
	log.Printf("departments ready: %d", len(deps))

	doctors, err := repo.ListDoctors(ctx, "")
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	log.Printf("doctors ready: %d", len(doctors))

	if *extraDoctors > 0 {
		gofakeit.Seed(time.Now().UnixNano())
		if err := seedFakeDoctors(ctx, repo, deps, *extraDoctors); err != nil {
			log.Fatalf("seed fake doctors: %v", err)
		}
	}

	log.Println("seed complete")
}

func seedFakeDoctors(ctx context.Context, repo *hospital.DynamoRepository, deps []hospital.Department, count int) error {
	log.Printf("registering %d fake doctors", count)

	specialties := map[string][]string{
		"dept1": {"Cardiologist", "Interventional Cardiologist"},
		"dept2": {"Neurologist", "Neurosurgeon"},
		"dept3": {"Orthopedic Surgeon"},
		"dept4": {"Pediatrician"},
		"dept5": {"General Practitioner"},
	}

	for i := 0; i < count; i++ {
		dep := deps[gofakeit.Number(0, len(deps)-1)]

		specialty := "General Practitioner"
		if opts := specialties[dep.ID]; len(opts) > 0 {
			specialty = opts[gofakeit.Number(0, len(opts)-1)]
		}

		if _, err := repo.RegisterDoctor(ctx, hospital.DoctorRegistration{
			Name:         "Dr. " + gofakeit.Name(),
			Email:        gofakeit.Email(),
			DepartmentID: dep.ID,
			Specialty:    specialty,
		}); err != nil {
			return err
		}

		if (i+1)%50 == 0 {
			log.Printf("doctors registered: %d/%d", i+1, count)
		}
	}

	log.Println("fake doctors registered")
	return nil
}
