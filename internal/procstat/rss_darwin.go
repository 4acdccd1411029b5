package procstat

// ru_maxrss is reported in bytes.
const rssUnit = 1
