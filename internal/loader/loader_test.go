package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const taillardSample = `# sample 2x2 instance
2 2
0 3 1 2
1 4 0 1
`

func TestParseTaillard(t *testing.T) {
	inst, err := ParseTaillard("sample", []byte(taillardSample))
	if err != nil {
		t.Fatalf("ParseTaillard: %v", err)
	}

	if inst.NumJobs() != 2 || inst.NumMachines() != 2 || inst.NumOperations() != 4 {
		t.Fatalf("parsed (%d jobs, %d machines, %d ops), want (2, 2, 4)",
			inst.NumJobs(), inst.NumMachines(), inst.NumOperations())
	}
	op := inst.Jobs[1][0]
	if op.Duration != 4 || !op.IsEligible(1) {
		t.Errorf("job1-op0 = %v, want duration 4 on machine 1", op)
	}
}

func TestParseTaillard_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"header only", "2 2\n"},
		{"odd fields", "2 2\n0 3 1\n"},
		{"non-numeric", "2 2\n0 x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTaillard("bad", []byte(tt.data)); err == nil {
				t.Fatal("ParseTaillard accepted malformed input")
			}
		})
	}
}

func TestJSON_EncodeDecode(t *testing.T) {
	inst, err := ParseTaillard("sample", []byte(taillardSample))
	if err != nil {
		t.Fatalf("ParseTaillard: %v", err)
	}

	data, err := EncodeJSON(inst)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	decoded, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}

	if decoded.Name != "sample" || decoded.NumOperations() != inst.NumOperations() {
		t.Errorf("decoded %v, want 4 operations named sample", decoded)
	}
}

func TestDecodeJSON_FlexibleMachinesMatrix(t *testing.T) {
	doc := `{
		"name": "flex",
		"duration_matrix": [[3, 2]],
		"machines_matrix": [[[0, 1], [1]]]
	}`
	inst, err := DecodeJSON([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if !inst.IsFlexible() {
		t.Error("IsFlexible = false for a flexible document")
	}
	if op := inst.Jobs[0][0]; !op.IsEligible(0) || !op.IsEligible(1) {
		t.Errorf("job0-op0 machines = %v, want [0 1]", op.Machines)
	}
}

func TestFetcher_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(path, []byte(taillardSample), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f := NewFetcher()
	for _, location := range []string{path, "file://" + path} {
		inst, err := f.Load(context.Background(), location)
		if err != nil {
			t.Fatalf("Load(%s): %v", location, err)
		}
		if inst.Name != "sample" || inst.NumOperations() != 4 {
			t.Errorf("Load(%s) = %v, want sample with 4 operations", location, inst)
		}
	}
}

func TestFetcher_LoadFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(taillardSample))
	}))
	defer srv.Close()

	inst, err := NewFetcher().Load(context.Background(), srv.URL+"/instances/sample.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if inst.NumOperations() != 4 {
		t.Errorf("loaded %d operations, want 4", inst.NumOperations())
	}
}

func TestSplitS3Location(t *testing.T) {
	bucket, key, err := splitS3Location("s3://benchmarks/jobshop/ta01.txt")
	if err != nil {
		t.Fatalf("splitS3Location: %v", err)
	}
	if bucket != "benchmarks" || key != "jobshop/ta01.txt" {
		t.Errorf("parsed (%s, %s), want (benchmarks, jobshop/ta01.txt)", bucket, key)
	}

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/"} {
		if _, _, err := splitS3Location(bad); err == nil {
			t.Errorf("splitS3Location(%q) accepted invalid location", bad)
		}
	}
}
