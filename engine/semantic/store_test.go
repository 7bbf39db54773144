package semantic

import (
	"context"
	"errors"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
)

// --- Mocks ---

type mockPoints struct {
	upsertReqs []*pb.UpsertPoints
	upsertErr  error
	searchReqs []*pb.SearchPoints
	searchResp *pb.SearchResponse
	searchErr  error
}

func (m *mockPoints) Upsert(_ context.Context, in *pb.UpsertPoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	m.upsertReqs = append(m.upsertReqs, in)
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	return &pb.PointsOperationResponse{}, nil
}

func (m *mockPoints) Search(_ context.Context, in *pb.SearchPoints, _ ...grpc.CallOption) (*pb.SearchResponse, error) {
	m.searchReqs = append(m.searchReqs, in)
	return m.searchResp, m.searchErr
}

type mockCollections struct {
	listResp   *pb.ListCollectionsResponse
	listErr    error
	createReqs []*pb.CreateCollection
	createErr  error
}

func (m *mockCollections) List(_ context.Context, _ *pb.ListCollectionsRequest, _ ...grpc.CallOption) (*pb.ListCollectionsResponse, error) {
	return m.listResp, m.listErr
}

func (m *mockCollections) Create(_ context.Context, in *pb.CreateCollection, _ ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	m.createReqs = append(m.createReqs, in)
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &pb.CollectionOperationResponse{Result: true}, nil
}

// --- Tests ---

func TestNewWithClients(t *testing.T) {
	vs := NewWithClients(&mockPoints{}, &mockCollections{}, "trips")
	if vs == nil {
		t.Fatal("expected non-nil")
	}
	if vs.Collection() != "trips" {
		t.Fatalf("Collection = %q", vs.Collection())
	}
	if err := vs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestEnsureCollection_ExistingIsNeverRecreated(t *testing.T) {
	cols := &mockCollections{
		listResp: &pb.ListCollectionsResponse{
			Collections: []*pb.CollectionDescription{{Name: "trips"}},
		},
	}
	vs := NewWithClients(&mockPoints{}, cols, "trips")

	// Repeated calls against an existing collection must stay read-only.
	for i := 0; i < 2; i++ {
		if err := vs.EnsureCollection(context.Background(), 1024); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if len(cols.createReqs) != 0 {
		t.Fatalf("Create called %d times on an existing collection", len(cols.createReqs))
	}
}

func TestEnsureCollection_CreatesWithDimsAndCosine(t *testing.T) {
	cols := &mockCollections{
		listResp: &pb.ListCollectionsResponse{Collections: []*pb.CollectionDescription{}},
	}
	vs := NewWithClients(&mockPoints{}, cols, "trips")

	if err := vs.EnsureCollection(context.Background(), 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cols.createReqs) != 1 {
		t.Fatalf("Create called %d times, want 1", len(cols.createReqs))
	}

	req := cols.createReqs[0]
	if req.CollectionName != "trips" {
		t.Errorf("collection name = %q", req.CollectionName)
	}
	params := req.GetVectorsConfig().GetParams()
	if params.GetSize() != 1024 {
		t.Errorf("vector size = %d, want 1024", params.GetSize())
	}
	if params.GetDistance() != pb.Distance_Cosine {
		t.Errorf("distance = %v, want cosine", params.GetDistance())
	}
}

func TestEnsureCollection_ListError(t *testing.T) {
	cols := &mockCollections{listErr: errors.New("rpc fail")}
	vs := NewWithClients(&mockPoints{}, cols, "trips")
	if err := vs.EnsureCollection(context.Background(), 1024); err == nil {
		t.Fatal("expected error")
	}
	if len(cols.createReqs) != 0 {
		t.Fatal("Create called despite list failure")
	}
}

func TestEnsureCollection_CreateError(t *testing.T) {
	cols := &mockCollections{
		listResp:  &pb.ListCollectionsResponse{Collections: []*pb.CollectionDescription{}},
		createErr: errors.New("create fail"),
	}
	vs := NewWithClients(&mockPoints{}, cols, "trips")
	if err := vs.EnsureCollection(context.Background(), 1024); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpsert_Empty(t *testing.T) {
	pts := &mockPoints{}
	vs := NewWithClients(pts, &mockCollections{}, "trips")
	if err := vs.Upsert(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts.upsertReqs) != 0 {
		t.Fatal("Upsert RPC issued for an empty batch")
	}
}

func TestUpsert_PointConstruction(t *testing.T) {
	pts := &mockPoints{}
	vs := NewWithClients(pts, &mockCollections{}, "trips")

	err := vs.Upsert(context.Background(), []VectorRecord{
		{
			ID:        "9f2c7f60-0000-4000-8000-000000000001",
			Embedding: []float32{1, 0, 0},
			Payload:   map[string]any{"text": "wat arun", "chunk_index": 2},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts.upsertReqs) != 1 {
		t.Fatalf("Upsert RPC issued %d times, want 1", len(pts.upsertReqs))
	}

	req := pts.upsertReqs[0]
	if req.CollectionName != "trips" {
		t.Errorf("collection name = %q", req.CollectionName)
	}
	if req.Wait == nil || !*req.Wait {
		t.Error("wait flag not set")
	}
	if len(req.Points) != 1 {
		t.Fatalf("points = %d, want 1", len(req.Points))
	}

	p := req.Points[0]
	if p.GetId().GetUuid() != "9f2c7f60-0000-4000-8000-000000000001" {
		t.Errorf("point id = %q", p.GetId().GetUuid())
	}
	if got := p.GetVectors().GetVector().GetData(); len(got) != 3 || got[0] != 1 {
		t.Errorf("vector data = %v", got)
	}
	if p.Payload["text"].GetStringValue() != "wat arun" {
		t.Errorf("payload text = %v", p.Payload["text"])
	}
	if p.Payload["chunk_index"].GetIntegerValue() != 2 {
		t.Errorf("payload chunk_index = %v", p.Payload["chunk_index"])
	}
}

func TestUpsert_Error(t *testing.T) {
	pts := &mockPoints{upsertErr: errors.New("unavailable")}
	vs := NewWithClients(pts, &mockCollections{}, "trips")
	err := vs.Upsert(context.Background(), []VectorRecord{{ID: "x", Embedding: []float32{1}}})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSearch_MapsResults(t *testing.T) {
	pts := &mockPoints{
		searchResp: &pb.SearchResponse{
			Result: []*pb.ScoredPoint{
				{
					Id:    &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: "p1"}},
					Score: 0.93,
					Payload: map[string]*pb.Value{
						"text":   {Kind: &pb.Value_StringValue{StringValue: "floating market"}},
						"source": {Kind: &pb.Value_StringValue{StringValue: "youtube"}},
					},
				},
				{
					Id:    &pb.PointId{PointIdOptions: &pb.PointId_Num{Num: 7}},
					Score: 0.41,
				},
			},
		},
	}
	vs := NewWithClients(pts, &mockCollections{}, "trips")

	results, err := vs.Search(context.Background(), []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].ID != "p1" || results[0].Score != 0.93 {
		t.Errorf("first hit = %+v", results[0])
	}
	if results[0].Text() != "floating market" {
		t.Errorf("first hit text = %q", results[0].Text())
	}
	if results[0].Payload["source"] != "youtube" {
		t.Errorf("first hit source = %v", results[0].Payload["source"])
	}
	if results[1].ID != "7" {
		t.Errorf("numeric id mapped to %q", results[1].ID)
	}

	req := pts.searchReqs[0]
	if req.Limit != 3 {
		t.Errorf("limit = %d, want 3", req.Limit)
	}
	if !req.GetWithPayload().GetEnable() {
		t.Error("payload not requested")
	}
}

func TestSearch_Error(t *testing.T) {
	pts := &mockPoints{searchErr: errors.New("timeout")}
	vs := NewWithClients(pts, &mockCollections{}, "trips")
	if _, err := vs.Search(context.Background(), []float32{1}, 3); err == nil {
		t.Fatal("expected error")
	}
}
