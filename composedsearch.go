package keystone

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/keystone/filter"
	"pkg.world.dev/keystone/types"
)

// Searchable is satisfied by Search and by the Or, And and Not compositions
// of searches, so compositions can nest arbitrarily.
type Searchable interface {
	Each(callback CallbackFn) error
	Count() (int, error)
	First() (types.EntityID, error)
	MustFirst() types.EntityID
	collect() ([]types.EntityID, error)
	world() *World
}

type OrSearch struct {
	searches []Searchable
}

type AndSearch struct {
	searches []Searchable
}

type NotSearch struct {
	search Searchable
}

// Or matches entities that match at least one of the given searches.
func Or(searches ...Searchable) Searchable {
	return &OrSearch{searches: searches}
}

// And matches entities that match every one of the given searches.
func And(searches ...Searchable) Searchable {
	return &AndSearch{searches: searches}
}

// Not matches entities that do not match the given search.
func Not(search Searchable) Searchable {
	return &NotSearch{search: search}
}

func (orSearch *OrSearch) world() *World { return orSearch.searches[0].world() }

func (orSearch *OrSearch) collect() ([]types.EntityID, error) {
	seen := make(map[types.EntityID]bool)
	res := make([]types.EntityID, 0)
	for _, search := range orSearch.searches {
		ids, err := search.collect()
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				res = append(res, id)
			}
		}
	}
	return res, nil
}

func (orSearch *OrSearch) Each(callback CallbackFn) error {
	ids, err := orSearch.collect()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !callback(id) {
			return nil
		}
	}
	return nil
}

func (orSearch *OrSearch) Count() (int, error) {
	ids, err := orSearch.collect()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (orSearch *OrSearch) First() (types.EntityID, error) {
	ids, err := orSearch.collect()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, eris.New("No search results")
	}
	return ids[0], nil
}

func (orSearch *OrSearch) MustFirst() types.EntityID {
	id, err := orSearch.First()
	if err != nil {
		panic("no search results")
	}
	return id
}

func (andSearch *AndSearch) world() *World { return andSearch.searches[0].world() }

func (andSearch *AndSearch) Each(callback CallbackFn) error {
	counts := make(map[types.EntityID]int)
	for _, search := range andSearch.searches {
		subIDs, err := search.collect()
		if err != nil {
			return err
		}
		for _, subID := range subIDs {
			counts[subID]++
		}
	}
	// Walk the world's entity order so composition keeps deterministic
	// output despite the map above.
	for _, id := range andSearch.world().entities {
		if counts[id] != len(andSearch.searches) {
			continue
		}
		if !callback(id) {
			return nil
		}
	}
	return nil
}

func (andSearch *AndSearch) collect() ([]types.EntityID, error) {
	results := make([]types.EntityID, 0)
	err := andSearch.Each(func(id types.EntityID) bool {
		results = append(results, id)
		return true
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (andSearch *AndSearch) Count() (int, error) {
	ids, err := andSearch.collect()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (andSearch *AndSearch) First() (types.EntityID, error) {
	ids, err := andSearch.collect()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, eris.New("No search results")
	}
	return ids[0], nil
}

func (andSearch *AndSearch) MustFirst() types.EntityID {
	id, err := andSearch.First()
	if err != nil {
		panic("no search results")
	}
	return id
}

func (notSearch *NotSearch) world() *World { return notSearch.search.world() }

func (notSearch *NotSearch) collect() ([]types.EntityID, error) {
	w := notSearch.world()
	excluded := make(map[types.EntityID]bool)
	excludedIDs, err := notSearch.search.collect()
	if err != nil {
		return nil, err
	}
	for _, id := range excludedIDs {
		excluded[id] = true
	}
	allIDs, err := NewSearch(w, filter.All()).collect()
	if err != nil {
		return nil, err
	}
	result := make([]types.EntityID, 0)
	for _, id := range allIDs {
		if !excluded[id] {
			result = append(result, id)
		}
	}
	return result, nil
}

func (notSearch *NotSearch) Each(callback CallbackFn) error {
	ids, err := notSearch.collect()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !callback(id) {
			return nil
		}
	}
	return nil
}

func (notSearch *NotSearch) Count() (int, error) {
	ids, err := notSearch.collect()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (notSearch *NotSearch) First() (types.EntityID, error) {
	ids, err := notSearch.collect()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, eris.New("No search results")
	}
	return ids[0], nil
}

func (notSearch *NotSearch) MustFirst() types.EntityID {
	id, err := notSearch.First()
	if err != nil {
		panic("no search results")
	}
	return id
}
