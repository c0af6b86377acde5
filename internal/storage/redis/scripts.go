package redis

const (
	// recordPassageScript atomically stores a passage and its day indexes
	recordPassageScript = `
local passage_key = KEYS[1]   -- tollfee:passage:{id}
local day_key = KEYS[2]       -- tollfee:passages:{date}:{plate}
local vehicles_key = KEYS[3]  -- tollfee:vehicles:{date}
local days_key = KEYS[4]      -- tollfee:days

local id = ARGV[1]
local plate = ARGV[2]
local category = ARGV[3]
local gantry = ARGV[4]
local timestamp = ARGV[5]
local score = ARGV[6]
local date = ARGV[7]
local ttl = tonumber(ARGV[8])

-- Replaying a passage must not move it between days
if redis.call('EXISTS', passage_key) == 1 then
  return 0
end

redis.call('HSET', passage_key,
  'id', id,
  'plate', plate,
  'category', category,
  'gantry', gantry,
  'timestamp', timestamp,
  'date', date
)
redis.call('ZADD', day_key, score, id)
redis.call('SADD', vehicles_key, plate)
redis.call('SADD', days_key, date)

if ttl > 0 then
  redis.call('EXPIRE', passage_key, ttl)
  redis.call('EXPIRE', day_key, ttl)
  redis.call('EXPIRE', vehicles_key, ttl)
end

return 1
`

	// putChargeScript atomically replaces a daily charge and indexes it
	putChargeScript = `
local charge_key = KEYS[1]    -- tollfee:charge:{date}:{plate}
local index_key = KEYS[2]     -- tollfee:charges:{date}
local days_key = KEYS[3]      -- tollfee:days

local date = ARGV[1]
local plate = ARGV[2]
local category = ARGV[3]
local fee = ARGV[4]
local uncapped = ARGV[5]
local passages = ARGV[6]
local computed_at = ARGV[7]
local ttl = tonumber(ARGV[8])

redis.call('HSET', charge_key,
  'date', date,
  'plate', plate,
  'category', category,
  'fee', fee,
  'uncapped', uncapped,
  'passages', passages,
  'computed_at', computed_at
)
redis.call('SADD', index_key, plate)
redis.call('SADD', days_key, date)

if ttl > 0 then
  redis.call('EXPIRE', charge_key, ttl)
  redis.call('EXPIRE', index_key, ttl)
end

return 'OK'
`
)
