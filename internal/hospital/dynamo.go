package hospital

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/medibook/hospital-booking/pkg/logging"
)

// Secondary indexes expected on the appointment and doctor tables.
const (
	doctorDateIndex  = "doctorId-date-index"
	patientDateIndex = "patientEmail-date-index"
	doctorEmailIndex = "email-index"
)

// dynamoAPI is the slice of the DynamoDB client the repository uses. Tests
// substitute a fake.
type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoTables names the three collections.
type DynamoTables struct {
	Departments  string
	Doctors      string
	Appointments string
}

// DefaultTables applies an optional name prefix, e.g. "medibook_".
func DefaultTables(prefix string) DynamoTables {
	return DynamoTables{
		Departments:  prefix + "departments",
		Doctors:      prefix + "doctors",
		Appointments: prefix + "appointments",
	}
}

// appointmentRecord is the stored shape of an appointment. Dates are kept
// as RFC3339 UTC strings so the date range key sorts chronologically.
type appointmentRecord struct {
	ID             string   `dynamodbav:"id"`
	DepartmentID   string   `dynamodbav:"departmentId"`
	DepartmentName string   `dynamodbav:"departmentName"`
	DoctorID       string   `dynamodbav:"doctorId"`
	DoctorName     string   `dynamodbav:"doctorName"`
	Date           string   `dynamodbav:"date"`
	TimeSlot       TimeSlot `dynamodbav:"timeSlot"`
	PatientName    string   `dynamodbav:"patientName"`
	PatientEmail   string   `dynamodbav:"patientEmail"`
	PatientPhone   string   `dynamodbav:"patientPhone"`
}

func (rec appointmentRecord) toAppointment() (Appointment, error) {
	date, err := time.Parse(time.RFC3339, rec.Date)
	if err != nil {
		return Appointment{}, fmt.Errorf("parse appointment date %q: %w", rec.Date, err)
	}
	return Appointment{
		ID:             rec.ID,
		DepartmentID:   rec.DepartmentID,
		DepartmentName: rec.DepartmentName,
		DoctorID:       rec.DoctorID,
		DoctorName:     rec.DoctorName,
		Date:           date,
		TimeSlot:       rec.TimeSlot,
		PatientName:    rec.PatientName,
		PatientEmail:   rec.PatientEmail,
		PatientPhone:   rec.PatientPhone,
	}, nil
}

// DynamoRepository is the remote document-store backing. An empty
// departments or doctors collection is seeded from the static dataset on
// first read, once.
type DynamoRepository struct {
	client dynamoAPI
	tables DynamoTables
	seed   Dataset
	logger *logging.Logger
}

func NewDynamoRepository(client dynamoAPI, tables DynamoTables, seed Dataset, logger *logging.Logger) *DynamoRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoRepository{
		client: client,
		tables: tables,
		seed:   seed,
		logger: logger,
	}
}

func (r *DynamoRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tables.Departments),
	})
	if err != nil {
		return nil, fmt.Errorf("scan departments: %w", err)
	}

	if len(out.Items) == 0 {
		if err := r.seedDepartments(ctx); err != nil {
			return nil, err
		}
		return sortDepartments(r.seed.Departments), nil
	}

	var deps []Department
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &deps); err != nil {
		return nil, fmt.Errorf("unmarshal departments: %w", err)
	}
	return sortDepartments(deps), nil
}

func (r *DynamoRepository) GetDepartment(ctx context.Context, id string) (*Department, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tables.Departments),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get department %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrDepartmentNotFound
	}

	var dep Department
	if err := attributevalue.UnmarshalMap(out.Item, &dep); err != nil {
		return nil, fmt.Errorf("unmarshal department: %w", err)
	}
	return &dep, nil
}

func (r *DynamoRepository) ListDoctors(ctx context.Context, departmentID string) ([]Doctor, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tables.Doctors),
	})
	if err != nil {
		return nil, fmt.Errorf("scan doctors: %w", err)
	}

	var doctors []Doctor
	if len(out.Items) == 0 {
		if err := r.seedDoctors(ctx); err != nil {
			return nil, err
		}
		doctors = append(doctors, r.seed.Doctors...)
	} else {
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &doctors); err != nil {
			return nil, fmt.Errorf("unmarshal doctors: %w", err)
		}
	}

	if departmentID != "" {
		filtered := doctors[:0]
		for _, d := range doctors {
			if d.DepartmentID == departmentID {
				filtered = append(filtered, d)
			}
		}
		doctors = filtered
	}

	sort.Slice(doctors, func(i, j int) bool { return doctors[i].Name < doctors[j].Name })
	return doctors, nil
}

func (r *DynamoRepository) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tables.Doctors),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get doctor %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrDoctorNotFound
	}

	var doc Doctor
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal doctor: %w", err)
	}
	return &doc, nil
}

func (r *DynamoRepository) FindDoctorByEmail(ctx context.Context, email string) (*Doctor, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.Doctors),
		IndexName:              aws.String(doctorEmailIndex),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: strings.ToLower(email)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query doctor by email: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, ErrDoctorNotFound
	}

	var doc Doctor
	if err := attributevalue.UnmarshalMap(out.Items[0], &doc); err != nil {
		return nil, fmt.Errorf("unmarshal doctor: %w", err)
	}
	return &doc, nil
}

func (r *DynamoRepository) RegisterDoctor(ctx context.Context, reg DoctorRegistration) (*Doctor, error) {
	_, err := r.FindDoctorByEmail(ctx, reg.Email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, ErrDoctorNotFound):
		return nil, err
	}

	doc := Doctor{
		ID:           uuid.NewString(),
		Name:         reg.Name,
		Email:        strings.ToLower(reg.Email),
		DepartmentID: reg.DepartmentID,
		Specialty:    reg.Specialty,
	}

	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal doctor: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.Doctors),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("put doctor: %w", err)
	}
	return &doc, nil
}

func (r *DynamoRepository) ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error) {
	var items []map[string]types.AttributeValue

	switch {
	case f.PatientEmail != "":
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tables.Appointments),
			IndexName:              aws.String(patientDateIndex),
			KeyConditionExpression: aws.String("patientEmail = :email"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":email": &types.AttributeValueMemberS{Value: strings.ToLower(f.PatientEmail)},
			},
			ScanIndexForward: aws.Bool(false),
		})
		if err != nil {
			return nil, fmt.Errorf("query appointments by patient: %w", err)
		}
		items = out.Items
	case f.DoctorID != "":
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tables.Appointments),
			IndexName:              aws.String(doctorDateIndex),
			KeyConditionExpression: aws.String("doctorId = :doctor"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":doctor": &types.AttributeValueMemberS{Value: f.DoctorID},
			},
			ScanIndexForward: aws.Bool(false),
		})
		if err != nil {
			return nil, fmt.Errorf("query appointments by doctor: %w", err)
		}
		items = out.Items
	default:
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName: aws.String(r.tables.Appointments),
		})
		if err != nil {
			return nil, fmt.Errorf("scan appointments: %w", err)
		}
		items = out.Items
	}

	appts, err := unmarshalAppointments(items)
	if err != nil {
		return nil, err
	}
	sort.Slice(appts, func(i, j int) bool { return appts[i].Date.After(appts[j].Date) })
	return appts, nil
}

func (r *DynamoRepository) AppointmentsForDoctorOnDay(ctx context.Context, doctorID string, day time.Time) ([]Appointment, error) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Second)

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.Appointments),
		IndexName:              aws.String(doctorDateIndex),
		KeyConditionExpression: aws.String("doctorId = :doctor AND #date BETWEEN :start AND :end"),
		ExpressionAttributeNames: map[string]string{
			"#date": "date",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":doctor": &types.AttributeValueMemberS{Value: doctorID},
			":start":  &types.AttributeValueMemberS{Value: start.UTC().Format(time.RFC3339)},
			":end":    &types.AttributeValueMemberS{Value: end.UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query appointments for day: %w", err)
	}

	return unmarshalAppointments(out.Items)
}

func (r *DynamoRepository) InsertAppointment(ctx context.Context, na NewAppointment) (*Appointment, error) {
	rec := appointmentRecord{
		ID:             uuid.NewString(),
		DepartmentID:   na.DepartmentID,
		DepartmentName: na.DepartmentName,
		DoctorID:       na.DoctorID,
		DoctorName:     na.DoctorName,
		Date:           na.Date.UTC().Format(time.RFC3339),
		TimeSlot:       na.TimeSlot,
		PatientName:    na.PatientName,
		PatientEmail:   strings.ToLower(na.PatientEmail),
		PatientPhone:   na.PatientPhone,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal appointment: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.Appointments),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("put appointment: %w", err)
	}

	appt, err := rec.toAppointment()
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *DynamoRepository) seedDepartments(ctx context.Context) error {
	r.logger.Info("departments collection empty, seeding reference data", "count", len(r.seed.Departments))
	for _, dep := range r.seed.Departments {
		item, err := attributevalue.MarshalMap(dep)
		if err != nil {
			return fmt.Errorf("marshal seed department: %w", err)
		}
		if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tables.Departments),
			Item:      item,
		}); err != nil {
			return fmt.Errorf("seed department %s: %w", dep.ID, err)
		}
	}
	return nil
}

func (r *DynamoRepository) seedDoctors(ctx context.Context) error {
	r.logger.Info("doctors collection empty, seeding reference data", "count", len(r.seed.Doctors))
	for _, doc := range r.seed.Doctors {
		item, err := attributevalue.MarshalMap(doc)
		if err != nil {
			return fmt.Errorf("marshal seed doctor: %w", err)
		}
		if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tables.Doctors),
			Item:      item,
		}); err != nil {
			return fmt.Errorf("seed doctor %s: %w", doc.ID, err)
		}
	}
	return nil
}

func unmarshalAppointments(items []map[string]types.AttributeValue) ([]Appointment, error) {
	var recs []appointmentRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &recs); err != nil {
		return nil, fmt.Errorf("unmarshal appointments: %w", err)
	}

	appts := make([]Appointment, 0, len(recs))
	for _, rec := range recs {
		a, err := rec.toAppointment()
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, nil
}

func sortDepartments(deps []Department) []Department {
	out := make([]Department, len(deps))
	copy(out, deps)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var _ Repository = (*DynamoRepository)(nil)
