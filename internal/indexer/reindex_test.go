package indexer

import "testing"

func TestShouldReindexSkipsWhenUpToDate(t *testing.T) {
	onDisk := map[string]string{"a": "h1", "b": "h2"}
	proposed := map[string]string{"a": "h1", "b": "h2"}
	if ShouldReindex(IndexVersion, onDisk, proposed) {
		t.Fatal("expected no reindex when version matches and proposed ⊆ on-disk")
	}
}

func TestShouldReindexOnOlderVersion(t *testing.T) {
	onDisk := map[string]string{"a": "h1"}
	proposed := map[string]string{"a": "h1"}
	if !ShouldReindex(IndexVersion-1, onDisk, proposed) {
		t.Fatal("expected reindex when on-disk version is stale")
	}
}

func TestShouldReindexOnNewFile(t *testing.T) {
	onDisk := map[string]string{"a": "h1"}
	proposed := map[string]string{"a": "h1", "b": "h2"}
	if !ShouldReindex(IndexVersion, onDisk, proposed) {
		t.Fatal("expected reindex when proposed contains an unknown path")
	}
}

func TestShouldReindexOnChangedHash(t *testing.T) {
	onDisk := map[string]string{"a": "h1"}
	proposed := map[string]string{"a": "h1-changed"}
	if !ShouldReindex(IndexVersion, onDisk, proposed) {
		t.Fatal("expected reindex when a known path's hash changed")
	}
}

func TestShouldReindexIgnoresDisappearedFiles(t *testing.T) {
	onDisk := map[string]string{"a": "h1", "b": "h2"}
	proposed := map[string]string{"a": "h1"} // b disappeared
	if ShouldReindex(IndexVersion, onDisk, proposed) {
		t.Fatal("files disappearing from the proposed set must not force a rebuild")
	}
}
