package pdfcache

import (
	"encoding/base64"
	"strconv"
	"sync"
	"time"

	"github.com/dilshat/mail-dispatch/dao"
	"github.com/dilshat/mail-dispatch/log"
	"github.com/dilshat/mail-dispatch/model"
	"github.com/dilshat/mail-dispatch/util"
)

//MaxPersistBytes is the per-file ceiling for the persistent mirror.
//Larger files stay memory-only for the current process lifetime.
const MaxPersistBytes = 5 << 20

//Cache keeps uploaded pdf blobs as data urls. The in-memory map is
//authoritative for the current session; entries within the size ceiling
//are mirrored into the db so they survive a restart. There is no
//eviction beyond the per-file admission check.
type Cache interface {
	//Store converts the bytes to a data url, keeps it in memory and
	//best-effort mirrors it, returning the data url
	Store(key string, data []byte) string
	//Get returns the data url for the key or "" on a miss in both tiers.
	//A persistent hit is promoted back into memory.
	Get(key string) string
	//Remove evicts the key from both tiers
	Remove(key string)
	//Hydrate seeds both tiers with an already-encoded data url
	Hydrate(key, dataUrl string)
}

//New creates a cache mirrored into the given db. A nil db gives a
//memory-only cache.
func New(db dao.Db) Cache {
	return &cache{db: db, mem: make(map[string]string)}
}

type cache struct {
	mu  sync.Mutex
	mem map[string]string
	db  dao.Db
}

func (c *cache) Store(key string, data []byte) string {
	dataUrl := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data)

	c.mu.Lock()
	c.mem[key] = dataUrl
	c.mu.Unlock()

	if len(data) <= MaxPersistBytes {
		c.persist(key, dataUrl)
	}

	return dataUrl
}

func (c *cache) Get(key string) string {
	c.mu.Lock()
	dataUrl, ok := c.mem[key]
	c.mu.Unlock()
	if ok {
		return dataUrl
	}

	if c.db == nil {
		return ""
	}

	var entry model.CacheEntry
	if err := c.db.One("Key", key, &entry); err != nil {
		return ""
	}

	c.mu.Lock()
	c.mem[key] = entry.DataUrl
	c.mu.Unlock()

	return entry.DataUrl
}

func (c *cache) Remove(key string) {
	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()

	if c.db == nil {
		return
	}

	err := c.db.DeleteStruct(&model.CacheEntry{Key: key})
	if err != nil && err.Error() != "not found" {
		log.WarnIfErr("Error removing cached pdf "+key, err)
	}
}

func (c *cache) Hydrate(key, dataUrl string) {
	c.mu.Lock()
	c.mem[key] = dataUrl
	c.mu.Unlock()

	c.persist(key, dataUrl)
}

//persist mirrors the entry into the db; failures are logged and
//swallowed so the in-memory copy still serves the session
func (c *cache) persist(key, dataUrl string) {
	if c.db == nil {
		return
	}
	log.WarnIfErr("Error persisting cached pdf "+key, c.db.Save(&model.CacheEntry{Key: key, DataUrl: dataUrl}))
}

//Key builds the synthetic cache key for an uploaded file from its name,
//the upload time and the file's last-modified stamp
func Key(fileName string, now time.Time, lastModified int64) string {
	return util.SanitizeKey(fileName) + "-" + strconv.FormatInt(now.UnixNano()/int64(time.Millisecond), 10) + "-" + strconv.FormatInt(lastModified, 10)
}
